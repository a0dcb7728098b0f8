package uninstall

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

type fakeRootWorker struct {
	ok  bool
	err error
}

func (f *fakeRootWorker) Update(ctx context.Context, uuid string) (bool, error) { return true, nil }
func (f *fakeRootWorker) Install(ctx context.Context, uuid, artifactPath string) (bool, error) {
	return true, nil
}
func (f *fakeRootWorker) Uninstall(ctx context.Context, uuid, packageName string) (bool, error) {
	return f.ok, f.err
}
func (f *fakeRootWorker) Start(ctx context.Context) error { return nil }
func (f *fakeRootWorker) Stop(ctx context.Context) error  { return nil }

type recordingPublisher struct {
	statuses []string
	errors   []*ports.ErrorPayload
}

func (r *recordingPublisher) PublishInstallProgress(ctx context.Context, uuid, status string, errs *ports.ErrorPayload) error {
	return nil
}
func (r *recordingPublisher) PublishUninstallProgress(ctx context.Context, uuid, status string, errs *ports.ErrorPayload) error {
	r.statuses = append(r.statuses, status)
	r.errors = append(r.errors, errs)
	return nil
}
func (r *recordingPublisher) Close(ctx context.Context) error { return nil }

func newTestCtx() *installctx.Context {
	ctx := installctx.New(context.Background(), "uuid-1", installctx.MethodGit, "19.01", nil)
	ctx.PackageName = "wazo-plugind-foobar-plugindtests"
	return ctx
}

func TestUninstallPipelineRunsFullSequenceOnSuccess(t *testing.T) {
	publisher := &recordingPublisher{}
	p := New(&fakeRootWorker{ok: true}, publisher)

	p.Run(newTestCtx())

	assert.Equal(t, []string{"starting", "removing", "completed"}, publisher.statuses)
	for _, e := range publisher.errors {
		assert.Nil(t, e)
	}
}

func TestUninstallPipelineMapsCommandFailureToUninstallError(t *testing.T) {
	publisher := &recordingPublisher{}
	p := New(&fakeRootWorker{ok: false}, publisher)

	p.Run(newTestCtx())

	assert.Equal(t, []string{"starting", "removing", "error"}, publisher.statuses)
	lastErr := publisher.errors[len(publisher.errors)-1]
	require.NotNil(t, lastErr)
	assert.Equal(t, "uninstall-error", lastErr.ErrorID)
	assert.Equal(t, "removing", lastErr.Details["step"])
}

func TestUninstallPipelineMapsUnexpectedErrorToStepError(t *testing.T) {
	publisher := &recordingPublisher{}
	p := New(&fakeRootWorker{err: fmt.Errorf("root worker unreachable")}, publisher)

	p.Run(newTestCtx())

	lastErr := publisher.errors[len(publisher.errors)-1]
	require.NotNil(t, lastErr)
	assert.Equal(t, "removing-error", lastErr.ErrorID)
}
