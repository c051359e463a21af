package spotfire_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrankin/spotfire-community/internal/server"
	"github.com/scrankin/spotfire-community/pkg/automation"
	"github.com/scrankin/spotfire-community/pkg/spotfire"
	"github.com/scrankin/spotfire-community/pkg/spotfire/jobxml"
)

// startMockServer runs the full mock over httptest with a short job finish
// threshold so WaitForJob tests resolve quickly.
func startMockServer(t *testing.T, opts ...server.Option) *httptest.Server {
	t.Helper()
	opts = append([]server.Option{
		server.WithRegistry(automation.NewRegistry(
			automation.WithFinishAfter(50 * time.Millisecond))),
	}, opts...)
	ts := httptest.NewServer(server.New(opts...).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func newLibraryClient(t *testing.T, ts *httptest.Server) *spotfire.LibraryClient {
	t.Helper()
	client, err := spotfire.NewLibraryClient(context.Background(), ts.URL, "client", "secret")
	require.NoError(t, err)
	return client
}

func newAutomationClient(t *testing.T, ts *httptest.Server) *spotfire.AutomationClient {
	t.Helper()
	client, err := spotfire.NewAutomationClient(context.Background(), ts.URL, "client", "secret")
	require.NoError(t, err)
	return client
}

func TestAuthenticationFailures(t *testing.T) {
	ts := startMockServer(t)
	ctx := context.Background()

	t.Run("ServerError", func(t *testing.T) {
		_, err := spotfire.NewLibraryClient(ctx, ts.URL, "return-500", "return-500")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to authenticate")
	})

	t.Run("NonOKSuccessCode", func(t *testing.T) {
		// A 202 carries no token, so the handshake still fails.
		_, err := spotfire.NewAutomationClient(ctx, ts.URL, "return-202", "return-202")
		require.Error(t, err)
	})

	t.Run("UnreachableServer", func(t *testing.T) {
		_, err := spotfire.NewLibraryClient(ctx, "http://127.0.0.1:1", "client", "secret")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect")
	})
}

func TestInjectedHTTPClientNotMutated(t *testing.T) {
	ts := startMockServer(t)
	hc := &http.Client{}

	_, err := spotfire.NewLibraryClient(context.Background(), ts.URL, "client", "secret",
		spotfire.WithHTTPClient(hc), spotfire.WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Zero(t, hc.Timeout)
}

func TestLibraryClientFolders(t *testing.T) {
	ts := startMockServer(t)
	client := newLibraryClient(t, ts)
	ctx := context.Background()

	t.Run("RootFolderID", func(t *testing.T) {
		id, err := client.FolderID(ctx, "/")
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("MissingFolder", func(t *testing.T) {
		_, err := client.FolderID(ctx, "/missing")
		assert.ErrorIs(t, err, spotfire.ErrItemNotFound)
	})

	t.Run("EnsureFolderCreatesChain", func(t *testing.T) {
		id, err := client.EnsureFolder(ctx, "/Reports/2026/Q1")
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		// Every intermediate folder now resolves, and ensure is idempotent.
		for _, path := range []string{"/Reports", "/Reports/2026", "/Reports/2026/Q1"} {
			_, err := client.FolderID(ctx, path)
			assert.NoError(t, err, path)
		}
		again, err := client.EnsureFolder(ctx, "/Reports/2026/Q1")
		require.NoError(t, err)
		assert.Equal(t, id, again)
	})

	t.Run("DeleteFolderRemovesSubtree", func(t *testing.T) {
		require.NoError(t, client.DeleteFolder(ctx, "/Reports/2026", false))

		_, err := client.FolderID(ctx, "/Reports/2026/Q1")
		assert.ErrorIs(t, err, spotfire.ErrItemNotFound)
		_, err = client.FolderID(ctx, "/Reports")
		assert.NoError(t, err)
	})

	t.Run("DeleteMissingFolder", func(t *testing.T) {
		assert.Error(t, client.DeleteFolder(ctx, "/gone", false))
		assert.NoError(t, client.DeleteFolder(ctx, "/gone", true))
	})
}

func TestLibraryClientUpload(t *testing.T) {
	ts := startMockServer(t)
	client := newLibraryClient(t, ts)
	ctx := context.Background()

	itemID, err := client.UploadFile(ctx, spotfire.UploadFileRequest{
		Data: []byte("dxp bytes"),
		Path: "/Reports/R1",
		Type: spotfire.ItemTypeDXP,
	})
	require.NoError(t, err)
	require.NotEmpty(t, itemID)

	t.Run("ConflictWithoutOverwrite", func(t *testing.T) {
		_, err := client.UploadFile(ctx, spotfire.UploadFileRequest{
			Data: []byte("new bytes"),
			Path: "/Reports/R1",
			Type: spotfire.ItemTypeDXP,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "409")
	})

	t.Run("OverwriteKeepsItemID", func(t *testing.T) {
		newID, err := client.UploadFile(ctx, spotfire.UploadFileRequest{
			Data:      []byte("new bytes"),
			Path:      "/Reports/R1",
			Type:      spotfire.ItemTypeDXP,
			Overwrite: true,
		})
		require.NoError(t, err)
		assert.Equal(t, itemID, newID)
	})

	t.Run("DeleteUploadedItem", func(t *testing.T) {
		require.NoError(t, client.DeleteItem(ctx, itemID))
		assert.ErrorIs(t, client.DeleteItem(ctx, itemID), spotfire.ErrItemNotFound)
	})
}

func TestAutomationClientJobs(t *testing.T) {
	ts := startMockServer(t)
	client := newAutomationClient(t, ts)
	ctx := context.Background()

	t.Run("SeededJobStatus", func(t *testing.T) {
		status, err := client.JobStatus(ctx, automation.SeededQueuedJobID)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusQueued, status)
	})

	t.Run("UnknownJob", func(t *testing.T) {
		_, err := client.JobStatus(ctx, uuid.New().String())
		assert.ErrorIs(t, err, spotfire.ErrJobNotFound)
	})

	t.Run("InvalidJobID", func(t *testing.T) {
		_, err := client.JobStatus(ctx, "nope")
		assert.ErrorIs(t, err, spotfire.ErrInvalidJobID)
	})

	t.Run("CancelJob", func(t *testing.T) {
		status, err := client.CancelJob(ctx, automation.SeededInProgressJobID)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusCanceled, status)
	})

	t.Run("StartLibraryJobAndWait", func(t *testing.T) {
		status, err := client.StartLibraryJobAndWait(ctx,
			automation.SeededDefinitionID, "", 10*time.Millisecond, 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusFinished, status)
	})

	t.Run("StartLibraryJobByPath", func(t *testing.T) {
		result, err := client.StartLibraryJob(ctx, "", automation.SeededDefinitionPath)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusInProgress, result.StatusCode)
	})

	t.Run("DefinitionNotFound", func(t *testing.T) {
		_, err := client.StartLibraryJob(ctx, uuid.New().String(), "")
		assert.ErrorIs(t, err, spotfire.ErrDefinitionNotFound)
	})

	t.Run("InvalidDefinitionID", func(t *testing.T) {
		_, err := client.StartLibraryJob(ctx, "not-a-uuid", "")
		assert.ErrorIs(t, err, spotfire.ErrInvalidDefinitionID)
	})

	t.Run("StartContentJobAndWait", func(t *testing.T) {
		def := jobxml.NewJobDefinition()
		def.AddTask(&jobxml.OpenAnalysisTask{Path: "/Reports/R1"})

		status, err := client.StartJobAndWait(ctx, def, 10*time.Millisecond, 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusFinished, status)
	})

	t.Run("InvalidJobXML", func(t *testing.T) {
		def := jobxml.NewJobDefinition()
		def.AddTask(&jobxml.OpenAnalysisTask{Path: "return-invalid"})

		_, err := client.StartJob(ctx, def)
		assert.ErrorIs(t, err, spotfire.ErrInvalidJobXML)
	})
}
