// Package creditledger owns workspace credit balances and the append-only
// transaction log. Every balance change commits together with its
// transaction row and an outbox event.
package creditledger
