// Package crud implements the list, form and confirmation lifecycle shared by
// every record view.
//
// A List owns the loaded collection, an auxiliary collection used for lookups
// and dependents counts, the open Form or Gate, and the transient banners.
// Network work is split from state changes: Fetch, Submit and Deactivate are
// safe to run off the event loop, while BeginLoad, Apply* and Expire must run
// on it. State changes return Effects telling the caller to reload or to
// schedule an Expiry; an expiry that was superseded or cancelled by Close
// fires into nothing.
package crud
