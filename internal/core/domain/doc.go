// Package domain defines the error taxonomy shared by the store, the
// pub/sub hub and the RESP server.
//
// Every failure that reaches a client is a *DomainError. Its Kind decides
// whether the connection survives; its Prefix and Message form the RESP
// error line ("WRONGTYPE Operation against ...").
package domain
