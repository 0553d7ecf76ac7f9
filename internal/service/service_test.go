package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/coupon-dashboard/internal/cache"
	"github.com/Cheertaboi/coupon-dashboard/internal/models"
	"github.com/Cheertaboi/coupon-dashboard/internal/repository"
)

func newComprasService(src *fakeSource) *ComprasService {
	c := cache.New[*models.ComprasPage](cache.Options{TTL: 5 * time.Minute})
	return NewComprasService(src, c, discardLogger())
}

func TestComprasService_CachesPerFiltersAndPage(t *testing.T) {
	src := &fakeSource{listFn: func(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error) {
		return &models.ComprasPage{Page: page}, nil
	}}
	svc := newComprasService(src)
	ctx := context.Background()

	p, err := svc.Page(ctx, models.Filters{Cidade: "SP"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Page)

	_, _ = svc.Page(ctx, models.Filters{Cidade: "SP"}, 2)
	assert.Equal(t, int32(1), src.listCalls.Load())

	_, _ = svc.Page(ctx, models.Filters{Cidade: "SP"}, 3)
	_, _ = svc.Page(ctx, models.Filters{Cidade: "RJ"}, 2)
	assert.Equal(t, int32(3), src.listCalls.Load())
}

func TestComprasService_PageFloor(t *testing.T) {
	var got int
	src := &fakeSource{listFn: func(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error) {
		got = page
		return &models.ComprasPage{}, nil
	}}

	_, err := newComprasService(src).Page(context.Background(), models.Filters{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestExportService_Outcomes(t *testing.T) {
	var urls []string
	var exportErr error
	src := &fakeSource{exportFn: func(ctx context.Context, f models.Filters) ([]string, error) {
		return urls, exportErr
	}}
	svc := NewExportService(src, discardLogger())
	ctx := context.Background()

	urls = []string{"https://x/a.csv"}
	got, err := svc.Export(ctx, models.Filters{})
	require.NoError(t, err)
	assert.Equal(t, urls, got)

	urls = nil
	_, err = svc.Export(ctx, models.Filters{})
	assert.ErrorIs(t, err, ErrNothingToExport)

	exportErr = &repository.FetchError{Endpoint: "export", Status: http.StatusInternalServerError}
	_, err = svc.Export(ctx, models.Filters{})
	assert.ErrorIs(t, err, ErrExportFailed)
	var fe *repository.FetchError
	assert.True(t, errors.As(err, &fe))
}

func TestExportService_RejectsConcurrentDuplicate(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	src := &fakeSource{exportFn: func(ctx context.Context, f models.Filters) ([]string, error) {
		close(started)
		<-release
		return []string{"u"}, nil
	}}
	svc := NewExportService(src, discardLogger())
	f := models.Filters{Loja: "l1"}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Export(context.Background(), f)
		assert.NoError(t, err)
	}()
	<-started

	assert.True(t, svc.InProgress(f))
	_, err := svc.Export(context.Background(), f)
	assert.ErrorIs(t, err, ErrExportInProgress)

	close(release)
	wg.Wait()
	assert.False(t, svc.InProgress(f), "guard released after the export settles")
}

func TestExportService_ReleasesAfterFailure(t *testing.T) {
	src := &fakeSource{exportFn: func(ctx context.Context, f models.Filters) ([]string, error) {
		return nil, errors.New("down")
	}}
	svc := NewExportService(src, discardLogger())

	_, err := svc.Export(context.Background(), models.Filters{})
	require.ErrorIs(t, err, ErrExportFailed)
	assert.False(t, svc.InProgress(models.Filters{}))
}

func TestLookupService_SortsAndRetries(t *testing.T) {
	geo := &fakeGeo{
		estadosErr: []error{&repository.FetchError{Status: http.StatusServiceUnavailable}},
		estados: []models.Estado{
			{ID: 35, Sigla: "SP", Nome: "São Paulo"},
			{ID: 12, Sigla: "AC", Nome: "Acre"},
			{ID: 33, Sigla: "RJ", Nome: "Rio de Janeiro"},
		},
		municipios: map[string][]models.Municipio{
			"SP": {{ID: 2, Nome: "Santos"}, {ID: 1, Nome: "Americana"}, {ID: 3, Nome: "Águas de Lindóia"}},
		},
	}
	lojas := &fakeSource{lojasFn: func(ctx context.Context) ([]models.Loja, error) {
		return []models.Loja{{ID: "l1", Nome: "Centro"}}, nil
	}}
	svc := NewLookupService(lojas, geo, RetryConfig{Attempts: 3, Delay: time.Millisecond}, time.Hour, discardLogger())

	opts := svc.Options(context.Background(), "SP")

	assert.Equal(t, []string{"Acre", "Rio de Janeiro", "São Paulo"}, nomesEstados(opts.Estados))
	assert.Equal(t, 2, geo.calls)
	assert.Equal(t, "Águas de Lindóia", opts.Municipios[0].Nome)
	assert.Equal(t, "Americana", opts.Municipios[1].Nome)
	assert.Equal(t, []models.Loja{{ID: "l1", Nome: "Centro"}}, opts.Lojas)
}

func TestLookupService_FailureDegradesToEmpty(t *testing.T) {
	geo := &fakeGeo{estadosErr: []error{
		&repository.FetchError{Status: http.StatusNotFound},
	}}
	lojas := &fakeSource{lojasFn: func(ctx context.Context) ([]models.Loja, error) {
		return nil, errors.New("boom")
	}}
	svc := NewLookupService(lojas, geo, RetryConfig{Attempts: 3, Delay: time.Millisecond}, time.Hour, discardLogger())

	opts := svc.Options(context.Background(), "")

	assert.NotNil(t, opts.Estados)
	assert.Empty(t, opts.Estados)
	assert.Equal(t, 1, geo.calls, "4xx is not retried")
	assert.NotNil(t, opts.Lojas)
	assert.Empty(t, opts.Lojas)
	assert.Empty(t, opts.Municipios)
}

func nomesEstados(es []models.Estado) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Nome)
	}
	return out
}

type blockingLoader struct {
	mu    sync.Mutex
	gates map[int]chan struct{}
}

func (l *blockingLoader) gate(page int) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gates == nil {
		l.gates = make(map[int]chan struct{})
	}
	if _, ok := l.gates[page]; !ok {
		l.gates[page] = make(chan struct{})
	}
	return l.gates[page]
}

func (l *blockingLoader) Page(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error) {
	<-l.gate(page)
	return &models.ComprasPage{Page: page}, nil
}

func TestView_LaterLoadSupersedesEarlier(t *testing.T) {
	loader := &blockingLoader{}
	v := &View{}

	slow := make(chan error, 1)
	go func() {
		_, err := v.Load(context.Background(), loader, models.Filters{}, 1)
		slow <- err
	}()
	time.Sleep(20 * time.Millisecond)

	fast := make(chan Snapshot, 1)
	go func() {
		snap, err := v.Load(context.Background(), loader, models.Filters{}, 2)
		assert.NoError(t, err)
		fast <- snap
	}()
	time.Sleep(20 * time.Millisecond)

	close(loader.gate(2))
	snap := <-fast
	assert.Equal(t, 2, snap.Result.Page)

	close(loader.gate(1))
	assert.ErrorIs(t, <-slow, ErrSuperseded)
	assert.Equal(t, 2, v.Current().Page, "stale result must not overwrite the view")
}

func TestView_LoadCancelsPreviousContext(t *testing.T) {
	v := &View{}
	cancelled := make(chan struct{})
	first := loaderFunc(func(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error) {
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	})
	second := loaderFunc(func(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error) {
		return &models.ComprasPage{}, nil
	})

	errCh := make(chan error, 1)
	go func() {
		_, err := v.Load(context.Background(), first, models.Filters{}, 1)
		errCh <- err
	}()
	time.Sleep(20 * time.Millisecond)

	snap, err := v.Load(context.Background(), second, models.Filters{Cupom: "9"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "9", snap.Filters.Cupom)

	<-cancelled
	assert.ErrorIs(t, <-errCh, ErrSuperseded)
}

type loaderFunc func(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error)

func (fn loaderFunc) Page(ctx context.Context, f models.Filters, page int) (*models.ComprasPage, error) {
	return fn(ctx, f, page)
}

func TestViewRegistry_EvictsIdle(t *testing.T) {
	r := NewViewRegistry(time.Minute)
	now := time.Unix(0, 0)
	r.now = func() time.Time { return now }

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))

	now = now.Add(2 * time.Minute)
	r.Get("b")
	assert.Equal(t, 1, r.Len())
	assert.NotSame(t, a, r.Get("a"))
}
