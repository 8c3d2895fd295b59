// Package compliance holds the behavioral test suite every report store must pass.
package compliance

import (
	"context"
	"testing"

	"github.com/rezkam/taskdesk/internal/application/profile"
	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Prefix is the namespace every object written by the suite lives under.
const Prefix = "compliance-test/"

// Store is the surface under test.
type Store interface {
	profile.ReportSink
	profile.ReportSource
}

// RunReportStoreComplianceTest runs a standard set of tests against a report store.
// setup returns a fresh (clean) store and a cleanup function.
func RunReportStoreComplianceTest(t *testing.T, setup func() (Store, func())) {
	t.Run("PutAndGet", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		name := Prefix + "profiles/1/a.json"
		require.NoError(t, store.Put(ctx, name, []byte(`{"v":1}`)))

		data, err := store.Get(ctx, name)
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":1}`, string(data))
	})

	t.Run("PutReplaces", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		name := Prefix + "profiles/1/b.json"
		require.NoError(t, store.Put(ctx, name, []byte(`{"v":1}`)))
		require.NoError(t, store.Put(ctx, name, []byte(`{"v":2}`)))

		data, err := store.Get(ctx, name)
		require.NoError(t, err)
		assert.JSONEq(t, `{"v":2}`, string(data))
	})

	t.Run("ListByPrefixSorted", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		for _, n := range []string{"profiles/1/2.json", "profiles/2/1.json", "profiles/1/1.json"} {
			require.NoError(t, store.Put(ctx, Prefix+n, []byte("{}")))
		}

		names, err := store.List(ctx, Prefix+"profiles/1/")
		require.NoError(t, err)
		assert.Equal(t, []string{Prefix + "profiles/1/1.json", Prefix + "profiles/1/2.json"}, names)

		names, err = store.List(ctx, Prefix+"profiles/9/")
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("GetMissing", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()

		_, err := store.Get(context.Background(), Prefix+"missing.json")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
