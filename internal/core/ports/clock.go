package ports

// Clock supplies the current instant as nanoseconds since the unix epoch.
// The core only ever compares instants by ordering.
type Clock interface {
	Now() uint64
}
