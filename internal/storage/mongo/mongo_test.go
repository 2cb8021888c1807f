//go:build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/xenking/handmade-storefront/internal/domain/inquiry"
)

func setupTestDB(t *testing.T) *SubmissionRepository {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := Connect(ctx, uri, "handmade")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Client().Disconnect(ctx) })

	repo := NewSubmissionRepository(db)
	require.NoError(t, repo.CreateIndexes(ctx))
	return repo
}

func TestSubmissionRepository(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	volunteer := &inquiry.Submission{
		ID:   uuid.NewString(),
		Kind: inquiry.KindVolunteer,
		Form: inquiry.Form{
			Name: "Salma", Email: "salma@example.com", Phone: "0111",
			Skills: "sewing", Availability: "weekends",
		},
		Status:    inquiry.StatusPending,
		CreatedAt: base,
	}
	require.NoError(t, repo.SaveSubmission(ctx, volunteer))
	require.NoError(t, repo.SaveSubmission(ctx, &inquiry.Submission{
		ID:        uuid.NewString(),
		Kind:      inquiry.KindNewsletter,
		Form:      inquiry.Form{Email: "reader@example.com"},
		Status:    inquiry.StatusPending,
		CreatedAt: base.Add(time.Minute),
	}))

	got, err := repo.ListSubmissions(ctx, inquiry.KindVolunteer)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, *volunteer, got[0])

	all, err := repo.ListSubmissions(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, inquiry.KindNewsletter, all[0].Kind)

	assert.Error(t, repo.SaveSubmission(ctx, volunteer))
}
