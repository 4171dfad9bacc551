// Package http is a small synchronous HTTP client: a Request builder
// that sends GET, HEAD or POST through one of two transports, and a
// Response that normalizes the raw transport output into a status code,
// header lines, elapsed time and success/error flags, with regex helpers
// over the body.
//
// The package provides:
//   - URL sanity checking before a Request exists (ValidateURL)
//   - Two interchangeable transports: a simple fetch on net/http and a
//     raw connection transport that returns headers and body as one blob
//   - A single parser (Parse) for both transport output shapes
//   - Text helpers: Extract, ExtractMap, Match and HeaderMap
//
// Basic Usage:
//
//	req, err := http.NewRequest("https://www.example.com/")
//	if err != nil {
//	    log.Fatal(err) // *http.InvalidURLError
//	}
//	req.Param("var1", "value_1").Param("var2", "value_2")
//
//	resp, err := req.Get(context.Background())
//	if err != nil {
//	    log.Fatal(err) // transport unavailable
//	}
//
//	if resp.IsSuccess() {
//	    code, _ := resp.StatusCode()
//	    fmt.Println(code, resp.ElapsedTime(), resp.BodyString())
//	} else if resp.IsError() {
//	    fmt.Println("Error:", resp.Error())
//	}
//
// Text Extraction:
//
//	n, err := resp.Match("/keyword/i")   // pattern count
//	n, err = resp.Match("keyword")       // literal count
//	ids, err := http.ExtractMap(resp, `/\d+/`, func(s string) int {
//	    v, _ := strconv.Atoi(s)
//	    return v
//	})
//
// Error Model:
//
// A failed fetch is not a Go error. It is recorded on the Response
// (IsError, Error) so every Response represents one completed attempt.
// A Response without a recognizable status line is merely not successful.
//
// Thread Safety:
//
// Requests are blocking and are not safe for concurrent use. Issue
// concurrent requests with separate Request values.
package http
