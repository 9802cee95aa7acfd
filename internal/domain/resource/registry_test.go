package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRemoteAPI struct {
	mock.Mock
}

func (m *MockRemoteAPI) Find(ctx context.Context, entity string, id string) (*RemoteEntity, error) {
	args := m.Called(ctx, entity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RemoteEntity), args.Error(1)
}

func (m *MockRemoteAPI) Create(ctx context.Context, entity string, payload Payload) (*RemoteEntity, error) {
	args := m.Called(ctx, entity, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RemoteEntity), args.Error(1)
}

func (m *MockRemoteAPI) Update(ctx context.Context, entity string, id string, payload Payload) (*RemoteEntity, error) {
	args := m.Called(ctx, entity, id, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RemoteEntity), args.Error(1)
}

func TestBind_AllSupportedTypes(t *testing.T) {
	reg, err := Bind(new(MockRemoteAPI))
	require.NoError(t, err)

	expected := []Type{
		TypeAccount, TypeBill, TypeBillPayment, TypeCreditMemo, TypeDepartment,
		TypeEmployee, TypeInvoice, TypeItem, TypeJournalEntry, TypeLine,
		TypePayment, TypePurchase, TypePurchaseOrder, TypeRefundReceipt,
		TypeTaxService, TypeTransfer, TypeVendor, TypeVendorCredit,
	}

	assert.Equal(t, len(expected), reg.Len())
	for _, typ := range expected {
		t.Run(string(typ), func(t *testing.T) {
			b, err := reg.Lookup(typ)
			require.NoError(t, err)
			assert.Equal(t, typ, b.Type)
			assert.NotNil(t, b.Find)
			assert.NotNil(t, b.Create)
			assert.NotNil(t, b.Update)
		})
	}
}

func TestBind_NilAPI(t *testing.T) {
	_, err := Bind(nil)
	assert.ErrorIs(t, err, ErrInvalidBinding)
}

func TestRegistry_LookupUnsupported(t *testing.T) {
	reg, err := Bind(new(MockRemoteAPI))
	require.NoError(t, err)

	_, err = reg.Lookup("Widget")
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.False(t, reg.Has("Widget"))
}

func TestRegistry_BindingDispatchesToEndpoint(t *testing.T) {
	api := new(MockRemoteAPI)
	ctx := context.Background()
	payload := Payload{"Name": "Checking"}

	api.On("Create", ctx, "account", payload).Return(&RemoteEntity{ID: "42"}, nil).Once()
	api.On("Update", ctx, "vendor", "7", payload).Return(&RemoteEntity{ID: "7"}, nil).Once()
	api.On("Find", ctx, "billpayment", "9").Return(&RemoteEntity{ID: "9"}, nil).Once()

	reg, err := Bind(api)
	require.NoError(t, err)

	account, err := reg.Lookup(TypeAccount)
	require.NoError(t, err)
	created, err := account.Create(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, "42", created.ID)

	vendor, err := reg.Lookup(TypeVendor)
	require.NoError(t, err)
	updated, err := vendor.Update(ctx, "7", payload)
	require.NoError(t, err)
	assert.Equal(t, "7", updated.ID)

	bp, err := reg.Lookup(TypeBillPayment)
	require.NoError(t, err)
	found, err := bp.Find(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, "9", found.ID)

	api.AssertExpectations(t)
}

func TestBind_TaxServiceReadsTaxCodeAndIsCreateOnly(t *testing.T) {
	api := new(MockRemoteAPI)
	ctx := context.Background()
	payload := Payload{"TaxCode": "City"}

	api.On("Create", ctx, "taxservice/taxcode", payload).Return(&RemoteEntity{ID: "42"}, nil).Once()
	api.On("Find", ctx, "taxcode", "42").Return(&RemoteEntity{ID: "42"}, nil).Once()

	reg, err := Bind(api)
	require.NoError(t, err)

	tax, err := reg.Lookup(TypeTaxService)
	require.NoError(t, err)

	created, err := tax.Create(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, "42", created.ID)

	found, err := tax.Find(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", found.ID)

	_, err = tax.Update(ctx, "42", payload)
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)

	api.AssertExpectations(t)
	api.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNewRegistry_Validation(t *testing.T) {
	noop := Binding{
		Type:   TypeVendor,
		Find:   func(context.Context, string) (*RemoteEntity, error) { return nil, nil },
		Create: func(context.Context, Payload) (*RemoteEntity, error) { return nil, nil },
		Update: func(context.Context, string, Payload) (*RemoteEntity, error) { return nil, nil },
	}

	tests := []struct {
		name     string
		bindings []Binding
		wantErr  error
	}{
		{
			name:     "single binding",
			bindings: []Binding{noop},
		},
		{
			name:     "duplicate type",
			bindings: []Binding{noop, noop},
			wantErr:  ErrDuplicateType,
		},
		{
			name:     "empty type",
			bindings: []Binding{{Find: noop.Find, Create: noop.Create, Update: noop.Update}},
			wantErr:  ErrInvalidBinding,
		},
		{
			name:     "missing update",
			bindings: []Binding{{Type: TypeVendor, Find: noop.Find, Create: noop.Create}},
			wantErr:  ErrInvalidBinding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := NewRegistry(tt.bindings...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, reg)
				return
			}
			require.NoError(t, err)
			assert.True(t, reg.Has(TypeVendor))
		})
	}
}

func TestRegistry_TypesSorted(t *testing.T) {
	reg, err := Bind(new(MockRemoteAPI))
	require.NoError(t, err)

	types := reg.Types()
	require.Len(t, types, 18)
	assert.Equal(t, TypeAccount, types[0])
	assert.Equal(t, TypeVendorCredit, types[len(types)-1])
	for i := 1; i < len(types); i++ {
		assert.Less(t, string(types[i-1]), string(types[i]))
	}
}

func TestType_Validate(t *testing.T) {
	assert.NoError(t, TypeInvoice.Validate())
	assert.ErrorIs(t, Type("Widget").Validate(), ErrUnsupportedType)

	endpoint, ok := TypeJournalEntry.Endpoint()
	assert.True(t, ok)
	assert.Equal(t, "journalentry", endpoint)
}
