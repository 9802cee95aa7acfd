package resource

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// Type - логический тип сущности (ключ реестра)
type Type string

const (
	TypeAccount       Type = "Account"
	TypeBill          Type = "Bill"
	TypeBillPayment   Type = "BillPayment"
	TypeCreditMemo    Type = "CreditMemo"
	TypeDepartment    Type = "Department"
	TypeEmployee      Type = "Employee"
	TypeInvoice       Type = "Invoice"
	TypeItem          Type = "Item"
	TypeJournalEntry  Type = "JournalEntry"
	TypeLine          Type = "Line"
	TypePayment       Type = "Payment"
	TypePurchase      Type = "Purchase"
	TypePurchaseOrder Type = "PurchaseOrder"
	TypeRefundReceipt Type = "RefundReceipt"
	TypeTaxService    Type = "TaxService"
	TypeTransfer      Type = "Transfer"
	TypeVendor        Type = "Vendor"
	TypeVendorCredit  Type = "VendorCredit"
)

// supportedTypes - таблица поддерживаемых сущностей QuickBooks.
// Endpoint - сегмент пути REST API, по которому живет сущность.
var supportedTypes = []struct {
	Type     Type
	Endpoint string
}{
	{TypeAccount, "account"},
	{TypeBill, "bill"},
	{TypeBillPayment, "billpayment"},
	{TypeCreditMemo, "creditmemo"},
	{TypeDepartment, "department"},
	{TypeEmployee, "employee"},
	{TypeInvoice, "invoice"},
	{TypeItem, "item"},
	{TypeJournalEntry, "journalentry"},
	{TypeLine, "line"},
	{TypePayment, "payment"},
	{TypePurchase, "purchase"},
	{TypePurchaseOrder, "purchaseorder"},
	{TypeRefundReceipt, "refundreceipt"},
	{TypeTaxService, "taxservice/taxcode"},
	{TypeTransfer, "transfer"},
	{TypeVendor, "vendor"},
	{TypeVendorCredit, "vendorcredit"},
}

// readEndpoints - сущности, которые читаются не по пути создания.
// TaxService создает налоговый код, а читается он как TaxCode.
var readEndpoints = map[Type]string{
	TypeTaxService: "taxcode",
}

// createOnly - сущности, которые QuickBooks не позволяет изменять
var createOnly = map[Type]struct{}{
	TypeTaxService: {},
}

// Endpoint возвращает сегмент REST пути для типа.
func (t Type) Endpoint() (string, bool) {
	for _, st := range supportedTypes {
		if st.Type == t {
			return st.Endpoint, true
		}
	}
	return "", false
}

func (Type) Schema(_ huma.Registry) *huma.Schema {
	enum := make([]any, 0, len(supportedTypes))
	for _, st := range supportedTypes {
		enum = append(enum, string(st.Type))
	}

	return &huma.Schema{
		Type:        huma.TypeString,
		Enum:        enum,
		Description: "Логический тип сущности QuickBooks",
		Examples:    []any{string(TypeAccount)},
	}
}

// Validate реализует интерфейс huma.Validatable.
func (t Type) Validate() error {
	if _, ok := t.Endpoint(); ok {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedType, string(t))
}

// String возвращает строковое представление типа.
func (t Type) String() string {
	return string(t)
}
