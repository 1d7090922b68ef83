// Package webhook implements the push-notification endpoint that keeps the
// local mirror in sync with its upstream.
//
// A request matches when it is a POST or PUT to <prefix>/<secret> (a
// trailing slash is fine) and a secret is configured. With no secret the
// endpoint never matches and requests fall through to normal routing.
//
// A matching request runs a fetch through the Syncer and is redirected to
// the landing location whether or not the fetch succeeded: the sender of a
// webhook cannot do anything useful with an error, so failures are logged.
//
// The Syncer allows one fetch per repository at a time. Requests arriving
// during a fetch coalesce into exactly one follow-up fetch.
package webhook
