// Package fetch issues the outbound JSON requests behind fetchview views.
//
// A Request is an immutable descriptor built once at construction:
//
//	req := fetch.NewRequest("github-profile", "https://api.github.com", "/users/{id}",
//	    fetch.WithIdentifier("octocat"))
//
// Client.GetJSON performs the GET and maps every failure onto one of four
// error types:
//
//   - *InvalidRequestError: the request failed validation; nothing was sent
//   - *TransportError: the request could not be sent or no response arrived
//   - *HTTPError: a response arrived with a non-2xx status (body ignored)
//   - *DecodeError: the body could not be parsed into the target type
//
// UserMessage turns any of them into the text shown to the user.
package fetch
