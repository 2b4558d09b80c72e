package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrConfigDatabaseModified is the sentinel a driver's StartTransaction
// returns when the device reports its candidate-config lock failed
// because of a benign prior modification. It never
// reaches a caller outside this package — Transactional retries once
// and only surfaces OperationNotCompleted if the retry also fails.
var ErrConfigDatabaseModified = errors.New("netman: configuration database modified")

// Transactional wraps a Driver so every mutating call is framed by
// start_transaction ... commit/rollback. It is built by composition:
// it holds the inner driver and exposes the same capability set,
// wrapping it in the decorator pattern rather than reimplementing it.
//
// Read operations are delegated directly and never participate in
// the envelope; they always observe the running configuration.
type Transactional struct {
	inner Driver

	mu      sync.Mutex
	started bool
}

// NewTransactional wraps driver in the transactional envelope.
func NewTransactional(driver Driver) *Transactional {
	return &Transactional{inner: driver}
}

var _ Driver = (*Transactional)(nil)

// ensureStarted is idempotent per the session's current transaction:
// if already started, it is a no-op; otherwise it acquires the
// candidate-config lock, retrying once on a benign "configuration
// database modified" response.
func (t *Transactional) ensureStarted(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	err := t.inner.StartTransaction(ctx)
	if errors.Is(err, ErrConfigDatabaseModified) {
		_ = t.inner.RollbackTransaction(ctx) // discard_changes
		err = t.inner.StartTransaction(ctx)
		if errors.Is(err, ErrConfigDatabaseModified) {
			return New(KindOperationNotCompleted, "candidate configuration lock could not be acquired after retry")
		}
	}
	if err != nil {
		return err
	}
	t.started = true
	return nil
}

// mutate runs fn inside the envelope: ensure a transaction is open,
// run fn, and roll back on any error fn returns.
func (t *Transactional) mutate(ctx context.Context, fn func(context.Context) error) error {
	if err := t.ensureStarted(ctx); err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		t.mu.Lock()
		_ = t.inner.RollbackTransaction(ctx)
		t.started = false
		t.mu.Unlock()
		return err
	}
	return nil
}

// Connect/Disconnect are transport-level and pass straight through.
func (t *Transactional) Connect(ctx context.Context) error    { return t.inner.Connect(ctx) }
func (t *Transactional) Disconnect(ctx context.Context) error  { return t.inner.Disconnect(ctx) }

// StartTransaction is exposed for explicit client-initiated
// start_transaction actions; it is identical to the internal
// ensureStarted used implicitly by every mutation.
func (t *Transactional) StartTransaction(ctx context.Context) error {
	return t.ensureStarted(ctx)
}

// EndTransaction always releases the candidate-config lock, whether
// or not a transaction is currently open — it is the unconditional
// cleanup run at session close.
func (t *Transactional) EndTransaction(ctx context.Context) error {
	t.mu.Lock()
	t.started = false
	t.mu.Unlock()
	return t.inner.EndTransaction(ctx)
}

// CommitTransaction pushes the candidate atomically. On any device
// error it discards the candidate and raises OperationNotCompleted
// carrying the device's reason; no partial commit is ever observed.
func (t *Transactional) CommitTransaction(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return nil
	}
	if err := t.inner.CommitTransaction(ctx); err != nil {
		_ = t.inner.RollbackTransaction(ctx)
		t.started = false
		return New(KindOperationNotCompleted, fmt.Sprintf("an error occurred while completing operation, no modifications have been applied: %s", err.Error()))
	}
	t.started = false
	return nil
}

// RollbackTransaction discards the candidate configuration.
func (t *Transactional) RollbackTransaction(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started = false
	return t.inner.RollbackTransaction(ctx)
}

// Reads bypass the envelope entirely.
func (t *Transactional) GetVlans(ctx context.Context) ([]Vlan, error) { return t.inner.GetVlans(ctx) }
func (t *Transactional) GetVlan(ctx context.Context, number int) (Vlan, error) {
	return t.inner.GetVlan(ctx, number)
}
func (t *Transactional) GetInterfaces(ctx context.Context) ([]Interface, error) {
	return t.inner.GetInterfaces(ctx)
}
func (t *Transactional) GetInterface(ctx context.Context, name string) (Interface, error) {
	return t.inner.GetInterface(ctx, name)
}
func (t *Transactional) GetBonds(ctx context.Context) ([]Bond, error) { return t.inner.GetBonds(ctx) }
func (t *Transactional) GetBond(ctx context.Context, number int) (Bond, error) {
	return t.inner.GetBond(ctx, number)
}

// Mutations: every one flows through mutate so it participates in
// the transaction envelope.

func (t *Transactional) AddVlan(ctx context.Context, number int, name string) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.AddVlan(ctx, number, name) })
}
func (t *Transactional) RemoveVlan(ctx context.Context, number int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.RemoveVlan(ctx, number) })
}
func (t *Transactional) SetAccessMode(ctx context.Context, ifName string) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.SetAccessMode(ctx, ifName) })
}
func (t *Transactional) SetTrunkMode(ctx context.Context, ifName string) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.SetTrunkMode(ctx, ifName) })
}
func (t *Transactional) SetAccessVlan(ctx context.Context, ifName string, number int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.SetAccessVlan(ctx, ifName, number) })
}
func (t *Transactional) RemoveAccessVlan(ctx context.Context, ifName string) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.RemoveAccessVlan(ctx, ifName) })
}
func (t *Transactional) ConfigureNativeVlan(ctx context.Context, ifName string, number int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.ConfigureNativeVlan(ctx, ifName, number) })
}
func (t *Transactional) RemoveNativeVlan(ctx context.Context, ifName string) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.RemoveNativeVlan(ctx, ifName) })
}
func (t *Transactional) AddTrunkVlan(ctx context.Context, ifName string, number int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.AddTrunkVlan(ctx, ifName, number) })
}
func (t *Transactional) RemoveTrunkVlan(ctx context.Context, ifName string, number int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.RemoveTrunkVlan(ctx, ifName, number) })
}
func (t *Transactional) SetInterfaceDescription(ctx context.Context, ifName, text string) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.SetInterfaceDescription(ctx, ifName, text) })
}
func (t *Transactional) RemoveInterfaceDescription(ctx context.Context, ifName string) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.RemoveInterfaceDescription(ctx, ifName) })
}
func (t *Transactional) EditInterfaceSpanningTree(ctx context.Context, ifName string, edge bool) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.EditInterfaceSpanningTree(ctx, ifName, edge) })
}
func (t *Transactional) OpenupInterface(ctx context.Context, ifName string) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.OpenupInterface(ctx, ifName) })
}
func (t *Transactional) ShutdownInterface(ctx context.Context, ifName string) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.ShutdownInterface(ctx, ifName) })
}
func (t *Transactional) EnableLLDP(ctx context.Context, ifName string, enabled bool) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.EnableLLDP(ctx, ifName, enabled) })
}
func (t *Transactional) AddBond(ctx context.Context, number int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.AddBond(ctx, number) })
}
func (t *Transactional) RemoveBond(ctx context.Context, number int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.RemoveBond(ctx, number) })
}
func (t *Transactional) AddInterfaceToBond(ctx context.Context, ifName string, number int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.AddInterfaceToBond(ctx, ifName, number) })
}
func (t *Transactional) RemoveInterfaceFromBond(ctx context.Context, ifName string) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.RemoveInterfaceFromBond(ctx, ifName) })
}
func (t *Transactional) SetBondLinkSpeed(ctx context.Context, number int, speed string) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.SetBondLinkSpeed(ctx, number, speed) })
}
func (t *Transactional) SetBondAccessMode(ctx context.Context, number int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.SetBondAccessMode(ctx, number) })
}
func (t *Transactional) SetBondTrunkMode(ctx context.Context, number int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.SetBondTrunkMode(ctx, number) })
}
func (t *Transactional) SetBondDescription(ctx context.Context, number int, text string) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.SetBondDescription(ctx, number, text) })
}
func (t *Transactional) RemoveBondDescription(ctx context.Context, number int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.RemoveBondDescription(ctx, number) })
}
func (t *Transactional) AddBondTrunkVlan(ctx context.Context, number, vlan int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.AddBondTrunkVlan(ctx, number, vlan) })
}
func (t *Transactional) RemoveBondTrunkVlan(ctx context.Context, number, vlan int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.RemoveBondTrunkVlan(ctx, number, vlan) })
}
func (t *Transactional) ConfigureBondNativeVlan(ctx context.Context, number, vlan int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.ConfigureBondNativeVlan(ctx, number, vlan) })
}
func (t *Transactional) RemoveBondNativeVlan(ctx context.Context, number int) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.RemoveBondNativeVlan(ctx, number) })
}
func (t *Transactional) EditBondSpanningTree(ctx context.Context, number int, edge bool) error {
	return t.mutate(ctx, func(ctx context.Context) error { return t.inner.EditBondSpanningTree(ctx, number, edge) })
}
