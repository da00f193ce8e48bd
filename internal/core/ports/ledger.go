package ports

import "context"

// TransferClient moves escrowed funds on an external ledger. It is the only
// collaborator a request ever suspends on: Transfer either resolves with the
// settlement block index or fails, and the caller treats a ledger-reported
// error and a transport failure identically.
type TransferClient interface {
	Transfer(
		ctx context.Context,
		ledgerId string, amount uint64, recipient string, memo string,
	) (uint64, error)
}
