package gcs

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rezkam/taskdesk/internal/storage/compliance"
	"github.com/stretchr/testify/require"
)

func TestGCSStore_Compliance(t *testing.T) {
	bucket := os.Getenv("TASKDESK_TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("TASKDESK_TEST_GCS_BUCKET not set, skipping GCS tests")
	}

	compliance.RunReportStoreComplianceTest(t, func() (compliance.Store, func()) {
		// Note: This assumes Application Default Credentials are set up
		// and point to a valid project with access to the bucket.
		ctx := context.Background()

		store, err := NewStore(ctx, bucket)
		require.NoError(t, err)

		cleanup := func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := store.deleteAll(cleanupCtx, compliance.Prefix); err != nil {
				t.Logf("Warning: cleanup failed: %v", err)
			}
			store.Close()
		}

		return store, cleanup
	})
}
