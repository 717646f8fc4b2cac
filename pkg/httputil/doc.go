// Package httputil provides the HTTP plumbing shared by the LLM client and
// the remote demo catalog loader.
//
//   - [NewClient]: an http.Client with a timeout, a User-Agent and
//     observability hooks on every request
//   - [Backoff]: doubling retries of failures marked [Transient];
//     [CheckStatus] marks 429 and 5xx responses
//
// User actions (generating an SVG) never retry: a failure is reported and
// the user re-invokes. [Backoff] is only used for startup loading.
package httputil
