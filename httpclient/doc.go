// Package httpclient provides a thin HTTP client with typed error
// classification and multipart/form-data support.
//
// It exists for API surfaces that speak multipart uploads, where an SDK
// client is unavailable. Status codes are classified into *Error values
// so callers can decide what is worth retrying.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:     "https://api.groq.com/openai/v1",
//	    BearerToken: apiKey,
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/audio/transcriptions",
//	    Body: &httpclient.MultipartBody{
//	        Fields: map[string]string{"model": "whisper-large-v3"},
//	        Files:  []httpclient.FileField{{FieldName: "file", FileName: "audio.wav", Data: wav}},
//	    },
//	})
package httpclient
