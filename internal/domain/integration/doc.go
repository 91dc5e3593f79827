// Package integration defines the contract to the remote commerce
// backend. The cart sync coordinator and HTTP handlers depend on the
// CartAPI port; infrastructure/commerce provides the REST adapter.
package integration
