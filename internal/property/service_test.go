package property

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/treadbook/treadbook/internal/catalog"
	"github.com/treadbook/treadbook/internal/users"
)

var errStoreDown = errors.New("store down")

// failingStore injects a storage fault at one chosen operation.
type failingStore struct {
	*MemoryStore
	failOn string
}

func (s *failingStore) Begin(ctx context.Context) (Tx, error) {
	if s.failOn == "begin" {
		return nil, errStoreDown
	}
	tx, err := s.MemoryStore.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &failingTx{Tx: tx, failOn: s.failOn}, nil
}

type failingTx struct {
	Tx
	failOn string
}

func (t *failingTx) FindUser(ctx context.Context, id string) (users.User, bool, error) {
	if t.failOn == "find user" {
		return users.User{}, false, errStoreDown
	}
	return t.Tx.FindUser(ctx, id)
}

func (t *failingTx) FindTire(ctx context.Context, dims catalog.Dimensions) (Tire, bool, error) {
	if t.failOn == "find tire" {
		return Tire{}, false, errStoreDown
	}
	return t.Tx.FindTire(ctx, dims)
}

func (t *failingTx) CreateTire(ctx context.Context, dims catalog.Dimensions) (Tire, error) {
	if t.failOn == "create tire" {
		return Tire{}, errStoreDown
	}
	return t.Tx.CreateTire(ctx, dims)
}

func (t *failingTx) OwnershipExists(ctx context.Context, userIdx, tireIdx int64) (bool, error) {
	if t.failOn == "ownership exists" {
		return false, errStoreDown
	}
	return t.Tx.OwnershipExists(ctx, userIdx, tireIdx)
}

func (t *failingTx) CreateOwnership(ctx context.Context, userIdx, tireIdx int64) error {
	if t.failOn == "create ownership" {
		return errStoreDown
	}
	return t.Tx.CreateOwnership(ctx, userIdx, tireIdx)
}

func (t *failingTx) Commit(ctx context.Context) error {
	if t.failOn == "commit" {
		return errStoreDown
	}
	return t.Tx.Commit(ctx)
}

// countingClient wraps a catalog client and counts lookups per trim id.
type countingClient struct {
	inner catalog.Client
	calls map[int64]int
}

func newCountingClient(inner catalog.Client) *countingClient {
	return &countingClient{inner: inner, calls: make(map[int64]int)}
}

func (c *countingClient) ResolveTireInfo(ctx context.Context, trimID int64) (catalog.Dimensions, error) {
	c.calls[trimID]++
	return c.inner.ResolveTireInfo(ctx, trimID)
}

func newTestService(t *testing.T, sizes map[int64]string, logins ...string) (*Service, *MemoryStore, *countingClient) {
	t.Helper()
	store := NewMemoryStore()
	for _, login := range logins {
		store.SeedUser(users.User{ID: login, PasswordHash: []byte("x")})
	}
	client := newCountingClient(catalog.Static{Sizes: sizes})
	return NewService(store, client), store, client
}

func TestCreatePropertiesSingleItem(t *testing.T) {
	svc, store, _ := newTestService(t, map[int64]string{5000: "225/60R16"}, "alice")

	out := svc.CreateProperties(context.Background(), []RegistrationInput{{UserID: "alice", TrimID: 5000}})
	if !out.OK {
		t.Fatalf("expected success, got %d %q", out.HTTPStatus, out.Error)
	}

	tires := store.Tires()
	if len(tires) != 1 {
		t.Fatalf("expected 1 tire, got %d", len(tires))
	}
	want := catalog.Dimensions{Width: 225, AspectRatio: 60, WheelSize: 16}
	if tires[0].Dims() != want {
		t.Fatalf("expected tire %+v, got %+v", want, tires[0].Dims())
	}

	owned := store.Ownerships()
	if len(owned) != 1 {
		t.Fatalf("expected 1 ownership, got %d", len(owned))
	}
	if owned[0].TireIdx != tires[0].Idx {
		t.Fatalf("ownership references tire %d, want %d", owned[0].TireIdx, tires[0].Idx)
	}
}

func TestCreatePropertiesUnknownUserRollsBackBatch(t *testing.T) {
	svc, store, _ := newTestService(t, map[int64]string{5000: "225/60R16"}, "alice")

	batch := []RegistrationInput{
		{UserID: "alice", TrimID: 5000},
		{UserID: "ghost", TrimID: 5000},
	}
	out := svc.CreateProperties(context.Background(), batch)
	if out.OK {
		t.Fatal("expected failure for unknown user")
	}
	if out.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", out.HTTPStatus)
	}
	if out.Error != "account ghost does not exist" {
		t.Fatalf("unexpected error message %q", out.Error)
	}

	// Rollback is total: alice's tire and ownership must be gone too.
	if n := len(store.Tires()); n != 0 {
		t.Fatalf("expected no tires after rollback, got %d", n)
	}
	if n := len(store.Ownerships()); n != 0 {
		t.Fatalf("expected no ownerships after rollback, got %d", n)
	}
}

func TestCreatePropertiesInvalidTrimRollsBackBatch(t *testing.T) {
	svc, store, _ := newTestService(t, map[int64]string{5000: "225/60R16"}, "bob")

	out := svc.CreateProperties(context.Background(), []RegistrationInput{{UserID: "bob", TrimID: 99999}})
	if out.OK {
		t.Fatal("expected failure for unresolvable trim id")
	}
	if out.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", out.HTTPStatus)
	}
	if out.Error != "99999 is not a valid trim id" {
		t.Fatalf("unexpected error message %q", out.Error)
	}
	if n := len(store.Ownerships()); n != 0 {
		t.Fatalf("expected no ownerships, got %d", n)
	}
}

func TestCreatePropertiesIsIdempotent(t *testing.T) {
	svc, store, _ := newTestService(t, map[int64]string{5000: "225/60R16"}, "alice")

	batch := []RegistrationInput{{UserID: "alice", TrimID: 5000}}
	for i := 0; i < 2; i++ {
		if out := svc.CreateProperties(context.Background(), batch); !out.OK {
			t.Fatalf("run %d: %d %q", i, out.HTTPStatus, out.Error)
		}
	}

	if n := len(store.Tires()); n != 1 {
		t.Fatalf("expected 1 tire after re-registration, got %d", n)
	}
	if n := len(store.Ownerships()); n != 1 {
		t.Fatalf("expected 1 ownership after re-registration, got %d", n)
	}
}

func TestCreatePropertiesSharedTrimIDMemoized(t *testing.T) {
	svc, store, client := newTestService(t, map[int64]string{5000: "225/60R16"}, "bob", "carol")

	batch := []RegistrationInput{
		{UserID: "bob", TrimID: 5000},
		{UserID: "carol", TrimID: 5000},
	}
	if out := svc.CreateProperties(context.Background(), batch); !out.OK {
		t.Fatalf("expected success, got %d %q", out.HTTPStatus, out.Error)
	}

	if client.calls[5000] != 1 {
		t.Fatalf("expected 1 catalog call for trim 5000, got %d", client.calls[5000])
	}
	if n := len(store.Tires()); n != 1 {
		t.Fatalf("expected shared tire row, got %d tires", n)
	}
	if n := len(store.Ownerships()); n != 2 {
		t.Fatalf("expected 2 ownerships, got %d", n)
	}
}

func TestCreatePropertiesReusesExistingTire(t *testing.T) {
	svc, store, _ := newTestService(t, map[int64]string{5000: "225/60R16", 7000: "225/60R16"}, "alice", "bob")

	if out := svc.CreateProperties(context.Background(), []RegistrationInput{{UserID: "alice", TrimID: 5000}}); !out.OK {
		t.Fatalf("first batch: %d %q", out.HTTPStatus, out.Error)
	}
	// Different trim, identical dimensions, separate batch.
	if out := svc.CreateProperties(context.Background(), []RegistrationInput{{UserID: "bob", TrimID: 7000}}); !out.OK {
		t.Fatalf("second batch: %d %q", out.HTTPStatus, out.Error)
	}

	if n := len(store.Tires()); n != 1 {
		t.Fatalf("expected tire row to be reused, got %d rows", n)
	}
	if n := len(store.Ownerships()); n != 2 {
		t.Fatalf("expected 2 ownerships, got %d", n)
	}
}

func TestCreatePropertiesRepeatedUserInBatch(t *testing.T) {
	svc, store, _ := newTestService(t, map[int64]string{5000: "225/60R16", 6000: "205/75R18"}, "alice")

	batch := []RegistrationInput{
		{UserID: "alice", TrimID: 5000},
		{UserID: "alice", TrimID: 6000},
	}
	if out := svc.CreateProperties(context.Background(), batch); !out.OK {
		t.Fatalf("expected success, got %d %q", out.HTTPStatus, out.Error)
	}

	if n := len(store.Tires()); n != 2 {
		t.Fatalf("expected 2 tires, got %d", n)
	}
	if n := len(store.Ownerships()); n != 2 {
		t.Fatalf("expected 2 ownerships, got %d", n)
	}
}

func TestCreatePropertiesStorageFaults(t *testing.T) {
	faults := []string{
		"begin",
		"find user",
		"find tire",
		"create tire",
		"ownership exists",
		"create ownership",
		"commit",
	}

	for _, fault := range faults {
		t.Run(fault, func(t *testing.T) {
			mem := NewMemoryStore()
			mem.SeedUser(users.User{ID: "alice", PasswordHash: []byte("x")})
			store := &failingStore{MemoryStore: mem, failOn: fault}
			svc := NewService(store, catalog.Static{Sizes: map[int64]string{5000: "225/60R16"}})

			out := svc.CreateProperties(context.Background(), []RegistrationInput{{UserID: "alice", TrimID: 5000}})
			if out.OK {
				t.Fatal("expected failure")
			}
			if out.HTTPStatus != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d (%q)", out.HTTPStatus, out.Error)
			}
			if out.Error == "" {
				t.Fatal("expected an error message")
			}

			// Nothing may survive a failed pass, whichever step faulted.
			if n := len(mem.Tires()); n != 0 {
				t.Fatalf("expected no tires after %s fault, got %d", fault, n)
			}
			if n := len(mem.Ownerships()); n != 0 {
				t.Fatalf("expected no ownerships after %s fault, got %d", fault, n)
			}
		})
	}
}

func TestGetPropertiesPagination(t *testing.T) {
	sizes := map[int64]string{
		1: "195/65R15", 2: "205/55R16", 3: "225/45R17",
		4: "235/40R18", 5: "245/35R19", 6: "255/30R20",
	}
	svc, store, _ := newTestService(t, sizes, "alice")
	owner, _ := store.FindByID(context.Background(), "alice")

	for trim := int64(1); trim <= 6; trim++ {
		if out := svc.CreateProperties(context.Background(), []RegistrationInput{{UserID: "alice", TrimID: trim}}); !out.OK {
			t.Fatalf("trim %d: %d %q", trim, out.HTTPStatus, out.Error)
		}
	}

	page, err := svc.GetProperties(context.Background(), owner.Idx, 1, 0)
	if err != nil {
		t.Fatalf("get properties: %v", err)
	}
	if page.Count != 6 {
		t.Fatalf("expected count 6, got %d", page.Count)
	}
	if len(page.Data) != 5 {
		t.Fatalf("expected default page size 5, got %d", len(page.Data))
	}

	second, err := svc.GetProperties(context.Background(), owner.Idx, 2, 5)
	if err != nil {
		t.Fatalf("get second page: %v", err)
	}
	if len(second.Data) != 1 {
		t.Fatalf("expected 1 item on second page, got %d", len(second.Data))
	}
}

func TestGetPropertyScopedToOwner(t *testing.T) {
	svc, store, _ := newTestService(t, map[int64]string{5000: "225/60R16"}, "alice", "mallory")
	alice, _ := store.FindByID(context.Background(), "alice")
	mallory, _ := store.FindByID(context.Background(), "mallory")

	if out := svc.CreateProperties(context.Background(), []RegistrationInput{{UserID: "alice", TrimID: 5000}}); !out.OK {
		t.Fatalf("register: %d %q", out.HTTPStatus, out.Error)
	}
	propIdx := store.Ownerships()[0].Idx

	record, err := svc.GetProperty(context.Background(), propIdx, alice.Idx)
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if record.Tire.Width != 225 {
		t.Fatalf("expected width 225, got %d", record.Tire.Width)
	}

	if _, err := svc.GetProperty(context.Background(), propIdx, mallory.Idx); err != ErrNoRecord {
		t.Fatalf("expected ErrNoRecord for non-owner, got %v", err)
	}
}
