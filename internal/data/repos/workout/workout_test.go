package workout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vael-labs/vael-backend/internal/data/repos/testutil"
	workoutdomain "github.com/vael-labs/vael-backend/internal/domain/workout"
)

func upload(ownerID uuid.UUID, id uuid.UUID, name string, createdAt time.Time) *workoutdomain.Workout {
	return &workoutdomain.Workout{
		ID:           id,
		UserID:       ownerID,
		Name:         name,
		Status:       "completed",
		StartTime:    createdAt.Add(-time.Hour),
		CreatedAt:    createdAt,
		LastModified: createdAt,
	}
}

func TestUpsertBatchInsertsNewRows(t *testing.T) {
	gormDB := testutil.DB(t)
	tx := testutil.Tx(t, gormDB)
	repo := NewRepo(tx, testutil.Logger(t))

	owner := testutil.SeedUser(t, tx, testutil.UniqueEmail("workout"))
	now := time.Now().UTC().Truncate(time.Microsecond)
	w := upload(owner.ID, uuid.New(), "Push Day", now)

	outcomes := repo.UpsertBatch(context.Background(), tx, []*workoutdomain.Workout{w})
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Status != UpsertApplied {
		t.Errorf("expected applied, got %s (err=%v)", outcomes[0].Status, outcomes[0].Err)
	}
}

func TestUpsertBatchNewerWins(t *testing.T) {
	gormDB := testutil.DB(t)
	tx := testutil.Tx(t, gormDB)
	repo := NewRepo(tx, testutil.Logger(t))

	owner := testutil.SeedUser(t, tx, testutil.UniqueEmail("workout"))
	id := uuid.New()
	older := time.Now().UTC().Truncate(time.Microsecond).Add(-time.Hour)
	newer := older.Add(30 * time.Minute)

	oldVol, newVol := 1000.0, 1100.0
	first := upload(owner.ID, id, "Old Name", older)
	first.VolumeKG = &oldVol
	second := upload(owner.ID, id, "New Name", newer)
	second.VolumeKG = &newVol

	repo.UpsertBatch(context.Background(), tx, []*workoutdomain.Workout{first})
	outcomes := repo.UpsertBatch(context.Background(), tx, []*workoutdomain.Workout{second})
	if outcomes[0].Status != UpsertApplied {
		t.Fatalf("expected newer record to apply, got %s", outcomes[0].Status)
	}

	stored, err := repo.GetByIDs(context.Background(), tx, []string{id.String()})
	if err != nil {
		t.Fatalf("fetching workout: %v", err)
	}
	if len(stored) != 1 || stored[0].Name != "New Name" {
		t.Fatalf("expected newer copy stored, got %+v", stored)
	}
	if stored[0].VolumeKG == nil || *stored[0].VolumeKG != newVol {
		t.Errorf("expected volume replaced with %v, got %v", newVol, stored[0].VolumeKG)
	}
}

func TestUpsertBatchOlderIsSkipped(t *testing.T) {
	gormDB := testutil.DB(t)
	tx := testutil.Tx(t, gormDB)
	repo := NewRepo(tx, testutil.Logger(t))

	owner := testutil.SeedUser(t, tx, testutil.UniqueEmail("workout"))
	id := uuid.New()
	newer := time.Now().UTC().Truncate(time.Microsecond)
	older := newer.Add(-time.Hour)

	repo.UpsertBatch(context.Background(), tx, []*workoutdomain.Workout{upload(owner.ID, id, "New Name", newer)})
	outcomes := repo.UpsertBatch(context.Background(), tx, []*workoutdomain.Workout{upload(owner.ID, id, "Old Name", older)})
	if outcomes[0].Status != UpsertSkipped {
		t.Fatalf("expected stale record skipped, got %s", outcomes[0].Status)
	}

	stored, err := repo.GetByIDs(context.Background(), tx, []string{id.String()})
	if err != nil {
		t.Fatalf("fetching workout: %v", err)
	}
	if len(stored) != 1 || stored[0].Name != "New Name" {
		t.Errorf("expected newer copy kept, got %+v", stored)
	}
}

func TestUpsertBatchEqualTimestampSkipped(t *testing.T) {
	gormDB := testutil.DB(t)
	tx := testutil.Tx(t, gormDB)
	repo := NewRepo(tx, testutil.Logger(t))

	owner := testutil.SeedUser(t, tx, testutil.UniqueEmail("workout"))
	id := uuid.New()
	ts := time.Now().UTC().Truncate(time.Microsecond)

	repo.UpsertBatch(context.Background(), tx, []*workoutdomain.Workout{upload(owner.ID, id, "First", ts)})
	outcomes := repo.UpsertBatch(context.Background(), tx, []*workoutdomain.Workout{upload(owner.ID, id, "Second", ts)})
	if outcomes[0].Status != UpsertSkipped {
		t.Fatalf("equal timestamps must not overwrite, got %s", outcomes[0].Status)
	}

	stored, err := repo.GetByIDs(context.Background(), tx, []string{id.String()})
	if err != nil {
		t.Fatalf("fetching workout: %v", err)
	}
	if len(stored) != 1 || stored[0].Name != "First" {
		t.Errorf("expected first copy kept on tie, got %+v", stored)
	}
}

func TestUpsertBatchIsIdempotent(t *testing.T) {
	gormDB := testutil.DB(t)
	tx := testutil.Tx(t, gormDB)
	repo := NewRepo(tx, testutil.Logger(t))

	owner := testutil.SeedUser(t, tx, testutil.UniqueEmail("workout"))
	ts := time.Now().UTC().Truncate(time.Microsecond)
	w := upload(owner.ID, uuid.New(), "Push Day", ts)

	repo.UpsertBatch(context.Background(), tx, []*workoutdomain.Workout{w})
	outcomes := repo.UpsertBatch(context.Background(), tx, []*workoutdomain.Workout{w})
	if outcomes[0].Status != UpsertSkipped {
		t.Errorf("replaying the same record should skip, got %s", outcomes[0].Status)
	}

	stored, err := repo.GetByIDs(context.Background(), tx, []string{w.ID.String()})
	if err != nil {
		t.Fatalf("fetching workout: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("expected exactly one row, got %d", len(stored))
	}
}

func TestUpsertBatchOrderIndependent(t *testing.T) {
	gormDB := testutil.DB(t)
	tx := testutil.Tx(t, gormDB)
	repo := NewRepo(tx, testutil.Logger(t))

	owner := testutil.SeedUser(t, tx, testutil.UniqueEmail("workout"))
	id := uuid.New()
	older := time.Now().UTC().Truncate(time.Microsecond).Add(-time.Hour)
	newer := older.Add(time.Minute)

	// Newer first, then older: the final row must still be the newer copy.
	repo.UpsertBatch(context.Background(), tx, []*workoutdomain.Workout{
		upload(owner.ID, id, "Newer", newer),
		upload(owner.ID, id, "Older", older),
	})

	stored, err := repo.GetByIDs(context.Background(), tx, []string{id.String()})
	if err != nil {
		t.Fatalf("fetching workout: %v", err)
	}
	if len(stored) != 1 || stored[0].Name != "Newer" {
		t.Errorf("expected newer copy regardless of arrival order, got %+v", stored)
	}
}

func TestListEmbeddedFiltersAndOrders(t *testing.T) {
	gormDB := testutil.DB(t)
	tx := testutil.Tx(t, gormDB)
	repo := NewRepo(tx, testutil.Logger(t))

	owner := testutil.SeedUser(t, tx, testutil.UniqueEmail("workout"))
	base := time.Now().UTC().Truncate(time.Microsecond)

	testutil.SeedWorkout(t, tx, owner.ID, "NoVector", base.Add(-3*time.Hour), nil)
	testutil.SeedWorkout(t, tx, owner.ID, "EmptyVector", base.Add(-2*time.Hour), []float32{})
	oldEmbedded := testutil.SeedWorkout(t, tx, owner.ID, "OldEmbedded", base.Add(-time.Hour), []float32{0.1, 0.2})
	newEmbedded := testutil.SeedWorkout(t, tx, owner.ID, "NewEmbedded", base, []float32{0.3, 0.4})

	got, err := repo.ListEmbedded(context.Background(), tx, 10)
	if err != nil {
		t.Fatalf("ListEmbedded returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 embedded workouts, got %d", len(got))
	}
	if got[0].ID != newEmbedded.ID || got[1].ID != oldEmbedded.ID {
		t.Errorf("expected newest-first ordering, got %s then %s", got[0].Name, got[1].Name)
	}
}

func TestListEmbeddedEmpty(t *testing.T) {
	gormDB := testutil.DB(t)
	tx := testutil.Tx(t, gormDB)
	repo := NewRepo(tx, testutil.Logger(t))

	got, err := repo.ListEmbedded(context.Background(), tx, 10)
	if err != nil {
		t.Fatalf("ListEmbedded returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no rows, got %d", len(got))
	}
}
