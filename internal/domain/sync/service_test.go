package sync

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"qbsync/internal/domain/resource"
	"qbsync/internal/infrastructure/quickbooks"
)

// MockRemoteAPI is a mock implementation of resource.RemoteAPI
type MockRemoteAPI struct {
	mock.Mock
}

func (m *MockRemoteAPI) Find(ctx context.Context, entity string, id string) (*resource.RemoteEntity, error) {
	args := m.Called(ctx, entity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resource.RemoteEntity), args.Error(1)
}

func (m *MockRemoteAPI) Create(ctx context.Context, entity string, payload resource.Payload) (*resource.RemoteEntity, error) {
	args := m.Called(ctx, entity, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resource.RemoteEntity), args.Error(1)
}

func (m *MockRemoteAPI) Update(ctx context.Context, entity string, id string, payload resource.Payload) (*resource.RemoteEntity, error) {
	args := m.Called(ctx, entity, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resource.RemoteEntity), args.Error(1)
}

// testRecord - запись в памяти, реализующая Record
type testRecord struct {
	id       string
	typ      resource.Type
	remoteID string
	payload  resource.Payload
	applyErr error
	applied  []string
}

func (r *testRecord) LocalID() string           { return r.id }
func (r *testRecord) LogicalType() resource.Type { return r.typ }
func (r *testRecord) RemoteID() (string, bool)   { return r.remoteID, r.remoteID != "" }
func (r *testRecord) RemotePayload() resource.Payload {
	out := make(resource.Payload, len(r.payload))
	for k, v := range r.payload {
		out[k] = v
	}
	return out
}

func (r *testRecord) ApplyRemoteID(_ context.Context, id string) error {
	if r.applyErr != nil {
		return r.applyErr
	}
	r.applied = append(r.applied, id)
	r.remoteID = id
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *MockRemoteAPI) {
	t.Helper()

	api := new(MockRemoteAPI)
	reg, err := resource.Bind(api)
	require.NoError(t, err)

	return NewEngine(reg, slog.Default()), api
}

func TestEngine_Sync_CreateUnsynced(t *testing.T) {
	engine, api := newTestEngine(t)
	ctx := context.Background()

	rec := &testRecord{
		id:      "local-1",
		typ:     resource.TypeAccount,
		payload: resource.Payload{"Name": "Checking"},
	}

	api.On("Create", ctx, "account", resource.Payload{"Name": "Checking"}).
		Return(&resource.RemoteEntity{ID: "42", SyncToken: "0"}, nil).Once()

	result, err := engine.Sync(ctx, rec)
	require.NoError(t, err)

	assert.Equal(t, OperationCreated, result.Operation)
	assert.Equal(t, "42", result.RemoteID)
	assert.Equal(t, []string{"42"}, rec.applied)

	id, ok := rec.RemoteID()
	assert.True(t, ok)
	assert.Equal(t, "42", id)
	api.AssertExpectations(t)
}

func TestEngine_Sync_UpdateSynced(t *testing.T) {
	engine, api := newTestEngine(t)
	ctx := context.Background()

	rec := &testRecord{
		id:       "local-1",
		typ:      resource.TypeAccount,
		remoteID: "42",
		payload:  resource.Payload{"Name": "Checking Updated"},
	}

	api.On("Update", ctx, "account", "42", resource.Payload{"Name": "Checking Updated"}).
		Return(&resource.RemoteEntity{ID: "42", SyncToken: "1"}, nil).Once()

	result, err := engine.Sync(ctx, rec)
	require.NoError(t, err)

	assert.Equal(t, OperationUpdated, result.Operation)
	assert.Equal(t, "42", result.RemoteID)
	assert.Empty(t, rec.applied)
	api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	api.AssertExpectations(t)
}

func TestEngine_Sync_UpdateKeepsStoredID(t *testing.T) {
	engine, api := newTestEngine(t)
	ctx := context.Background()

	rec := &testRecord{id: "local-1", typ: resource.TypeVendor, remoteID: "42", payload: resource.Payload{}}

	// удаленный сервис вернул другой ID - сохраненный остается прежним
	api.On("Update", ctx, "vendor", "42", resource.Payload{}).
		Return(&resource.RemoteEntity{ID: "99"}, nil).Once()

	result, err := engine.Sync(ctx, rec)
	require.NoError(t, err)

	assert.Equal(t, "42", result.RemoteID)
	id, _ := rec.RemoteID()
	assert.Equal(t, "42", id)
	assert.Empty(t, rec.applied)
}

func TestEngine_Sync_TwiceCreatesOnce(t *testing.T) {
	engine, api := newTestEngine(t)
	ctx := context.Background()

	rec := &testRecord{id: "local-1", typ: resource.TypeInvoice, payload: resource.Payload{"DocNumber": "1001"}}

	api.On("Create", ctx, "invoice", mock.Anything).Return(&resource.RemoteEntity{ID: "7"}, nil).Once()
	api.On("Update", ctx, "invoice", "7", mock.Anything).Return(&resource.RemoteEntity{ID: "7"}, nil).Once()

	first, err := engine.Sync(ctx, rec)
	require.NoError(t, err)
	second, err := engine.Sync(ctx, rec)
	require.NoError(t, err)

	assert.Equal(t, OperationCreated, first.Operation)
	assert.Equal(t, OperationUpdated, second.Operation)
	api.AssertNumberOfCalls(t, "Create", 1)
	api.AssertNumberOfCalls(t, "Update", 1)
}

func TestEngine_Sync_UpdateNotFoundIsGone(t *testing.T) {
	engine, api := newTestEngine(t)
	ctx := context.Background()

	rec := &testRecord{id: "local-1", typ: resource.TypeAccount, remoteID: "42", payload: resource.Payload{"Name": "Checking Updated"}}

	fault := &resource.Fault{Kind: resource.ErrNotFound, StatusCode: 400, Code: "610", Message: "Object Not Found"}
	api.On("Update", ctx, "account", "42", mock.Anything).Return(nil, fault).Once()

	result, err := engine.Sync(ctx, rec)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrRemoteEntityGone)
	assert.False(t, Retryable(err))

	var f *resource.Fault
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "610", f.Code)

	id, _ := rec.RemoteID()
	assert.Equal(t, "42", id)
	api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_Sync_TaxServiceResyncIsValidation(t *testing.T) {
	engine, api := newTestEngine(t)
	ctx := context.Background()

	rec := &testRecord{id: "local-1", typ: resource.TypeTaxService, remoteID: "42", payload: resource.Payload{"TaxCode": "City"}}

	result, err := engine.Sync(ctx, rec)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrRemoteValidation)
	assert.NotErrorIs(t, err, ErrRemoteEntityGone)
	assert.False(t, Retryable(err))

	api.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_Sync_BareNotFoundIsNotGone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<html>Not Found</html>"))
	}))
	defer server.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := quickbooks.NewClient(quickbooks.Config{BaseURL: server.URL, RealmID: "r", RatePerMinute: 60000}, log)
	require.NoError(t, err)
	reg, err := resource.Bind(client)
	require.NoError(t, err)

	tests := []struct {
		name string
		typ  resource.Type
	}{
		{name: "vendor", typ: resource.TypeVendor},
		{name: "tax service", typ: resource.TypeTaxService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &testRecord{id: "local-1", typ: tt.typ, remoteID: "42", payload: resource.Payload{"Name": "x"}}

			_, err := NewEngine(reg, log).Sync(context.Background(), rec)
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrRemoteEntityGone)
			assert.ErrorIs(t, err, ErrRemoteValidation)
		})
	}
}

func TestEngine_Sync_UnsupportedType(t *testing.T) {
	engine, api := newTestEngine(t)

	rec := &testRecord{id: "local-1", typ: "Widget", payload: resource.Payload{"Name": "x"}}

	result, err := engine.Sync(context.Background(), rec)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnsupportedEntityType)
	assert.False(t, Retryable(err))
	api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_Sync_CreateFailures(t *testing.T) {
	tests := []struct {
		name      string
		remoteErr error
		wantErr   error
		retryable bool
	}{
		{
			name:      "validation",
			remoteErr: &resource.Fault{Kind: resource.ErrValidation, StatusCode: 400, Code: "2020", Message: "Required param missing"},
			wantErr:   ErrRemoteValidation,
		},
		{
			name:      "not found on create is validation",
			remoteErr: &resource.Fault{Kind: resource.ErrNotFound, StatusCode: 400, Code: "610", Message: "Object Not Found"},
			wantErr:   ErrRemoteValidation,
		},
		{
			name:      "transient",
			remoteErr: &resource.Fault{Kind: resource.ErrTransient, StatusCode: 503},
			wantErr:   ErrRemoteTransient,
			retryable: true,
		},
		{
			name:      "unclassified",
			remoteErr: context.DeadlineExceeded,
			wantErr:   ErrRemoteTransient,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, api := newTestEngine(t)
			ctx := context.Background()
			rec := &testRecord{id: "local-1", typ: resource.TypeBill, payload: resource.Payload{"TotalAmt": 10.5}}

			api.On("Create", ctx, "bill", mock.Anything).Return(nil, tt.remoteErr).Once()

			result, err := engine.Sync(ctx, rec)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.retryable, Retryable(err))

			_, ok := rec.RemoteID()
			assert.False(t, ok)
			assert.Empty(t, rec.applied)
		})
	}
}

func TestEngine_Sync_CreateEmptyID(t *testing.T) {
	engine, api := newTestEngine(t)
	ctx := context.Background()
	rec := &testRecord{id: "local-1", typ: resource.TypeItem, payload: resource.Payload{}}

	api.On("Create", ctx, "item", mock.Anything).Return(&resource.RemoteEntity{}, nil).Once()

	_, err := engine.Sync(ctx, rec)
	assert.ErrorIs(t, err, ErrRemoteValidation)
	assert.Empty(t, rec.applied)
}

func TestEngine_Sync_ApplyRemoteIDFails(t *testing.T) {
	engine, api := newTestEngine(t)
	ctx := context.Background()
	rec := &testRecord{
		id:       "local-1",
		typ:      resource.TypeVendor,
		payload:  resource.Payload{"DisplayName": "Acme"},
		applyErr: errors.New("disk full"),
	}

	api.On("Create", ctx, "vendor", mock.Anything).Return(&resource.RemoteEntity{ID: "55"}, nil).Once()

	result, err := engine.Sync(ctx, rec)
	assert.ErrorIs(t, err, ErrApplyRemoteID)
	assert.False(t, Retryable(err))
	require.NotNil(t, result)
	assert.Equal(t, "55", result.RemoteID)

	_, ok := rec.RemoteID()
	assert.False(t, ok)
}

func TestEngine_Sync_PayloadIsNotMutated(t *testing.T) {
	engine, api := newTestEngine(t)
	ctx := context.Background()
	rec := &testRecord{id: "local-1", typ: resource.TypeDepartment, payload: resource.Payload{"Name": "Sales"}}

	api.On("Create", ctx, "department", mock.Anything).
		Run(func(args mock.Arguments) {
			p := args.Get(2).(resource.Payload)
			p["Name"] = "changed by client"
		}).
		Return(nil, &resource.Fault{Kind: resource.ErrTransient, StatusCode: 502}).Once()

	_, err := engine.Sync(ctx, rec)
	require.ErrorIs(t, err, ErrRemoteTransient)
	assert.Equal(t, "Sales", rec.payload["Name"])
}

func TestEngine_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("synced record", func(t *testing.T) {
		engine, api := newTestEngine(t)
		rec := &testRecord{id: "local-1", typ: resource.TypeAccount, remoteID: "42"}
		api.On("Find", ctx, "account", "42").
			Return(&resource.RemoteEntity{ID: "42", Attributes: map[string]any{"Name": "Checking"}}, nil).Once()

		remote, err := engine.Fetch(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, "Checking", remote.Attributes["Name"])
	})

	t.Run("unsynced record", func(t *testing.T) {
		engine, api := newTestEngine(t)
		rec := &testRecord{id: "local-1", typ: resource.TypeAccount}

		_, err := engine.Fetch(ctx, rec)
		assert.ErrorIs(t, err, ErrNotSynced)
		api.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("gone", func(t *testing.T) {
		engine, api := newTestEngine(t)
		rec := &testRecord{id: "local-1", typ: resource.TypeAccount, remoteID: "42"}
		api.On("Find", ctx, "account", "42").
			Return(nil, &resource.Fault{Kind: resource.ErrNotFound, StatusCode: 404}).Once()

		_, err := engine.Fetch(ctx, rec)
		assert.ErrorIs(t, err, ErrRemoteEntityGone)
	})

	t.Run("unsupported type", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		rec := &testRecord{id: "local-1", typ: "Widget", remoteID: "1"}

		_, err := engine.Fetch(ctx, rec)
		assert.ErrorIs(t, err, ErrUnsupportedEntityType)
	})
}
