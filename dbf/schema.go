package dbf

// FieldType is the one-letter dBase column type.
type FieldType byte

const (
	TypeCharacter FieldType = 'C'
	TypeNumeric   FieldType = 'N'
	TypeDate      FieldType = 'D'
)

// FieldDescriptor describes one fixed-width column of the record layout.
// The order of descriptors defines the byte offset of every field, so the
// schema below must never be reordered or resized once deployed.
type FieldDescriptor struct {
	Name     string
	Type     FieldType
	Length   int
	Decimals int
}

// Pre-sale field names. The legacy reader identifies columns by these exact
// names, including the overloaded CRM column (customer name on the header
// row, physician registration on item rows, slot value on contact rows).
const (
	FieldOperator      = "OPERADOR"
	FieldProductCode   = "CODPRO"
	FieldQuantity      = "QUANTDE"
	FieldPrice         = "PRECO"
	FieldTotal         = "TOTAL"
	FieldPaymentFlag   = "FLAGPG"
	FieldDate          = "DATA"
	FieldTime          = "HORA"
	FieldFreeText      = "CRM"
	FieldPhysicianUF   = "UFCRM"
	FieldRxDate        = "DATARC"
	FieldLotNumber     = "LOTE"
	FieldLotExpiry     = "DATAVAL"
	FieldTaxID         = "CPF"
	FieldPhone         = "FONE"
	FieldGovernmentID  = "RG"
	FieldPickupFlag    = "RETIRA"
	FieldPickupStore   = "LOJARET"
	FieldBackorder     = "ENCOMENDA"
	FieldVoidOnArrival = "VENDARV"
	FieldDeliveryDate  = "DATAENT"
	FieldDeliveryTime  = "HORAENT"
	FieldContactSlot   = "SEQCON"
)

// PreSaleFields is the frozen column layout of the C######.DBF interchange
// file consumed by the legacy POS engine.
var PreSaleFields = []FieldDescriptor{
	{Name: FieldOperator, Type: TypeNumeric, Length: 4},
	{Name: FieldProductCode, Type: TypeCharacter, Length: 13},
	{Name: FieldQuantity, Type: TypeNumeric, Length: 7},
	{Name: FieldPrice, Type: TypeNumeric, Length: 11, Decimals: 2},
	{Name: FieldTotal, Type: TypeNumeric, Length: 11, Decimals: 2},
	{Name: FieldPaymentFlag, Type: TypeCharacter, Length: 1},
	{Name: FieldDate, Type: TypeDate, Length: 8},
	{Name: FieldTime, Type: TypeCharacter, Length: 8},
	{Name: FieldFreeText, Type: TypeCharacter, Length: 40},
	{Name: FieldPhysicianUF, Type: TypeCharacter, Length: 2},
	{Name: FieldRxDate, Type: TypeDate, Length: 8},
	{Name: FieldLotNumber, Type: TypeCharacter, Length: 15},
	{Name: FieldLotExpiry, Type: TypeDate, Length: 8},
	{Name: FieldTaxID, Type: TypeCharacter, Length: 14},
	{Name: FieldPhone, Type: TypeCharacter, Length: 15},
	{Name: FieldGovernmentID, Type: TypeCharacter, Length: 15},
	{Name: FieldPickupFlag, Type: TypeCharacter, Length: 1},
	{Name: FieldPickupStore, Type: TypeNumeric, Length: 4},
	{Name: FieldBackorder, Type: TypeNumeric, Length: 6},
	{Name: FieldVoidOnArrival, Type: TypeCharacter, Length: 1},
	{Name: FieldDeliveryDate, Type: TypeDate, Length: 8},
	{Name: FieldDeliveryTime, Type: TypeCharacter, Length: 5},
	{Name: FieldContactSlot, Type: TypeNumeric, Length: 2},
}

// RecordLength returns the byte length of one record: the deletion-flag
// byte plus every field width.
func RecordLength(fields []FieldDescriptor) int {
	length := 1
	for _, fd := range fields {
		length += fd.Length
	}
	return length
}

// HeaderLength returns the byte length of the file header: the 32-byte
// fixed block, one 32-byte descriptor per field and the 0x0D terminator.
func HeaderLength(fields []FieldDescriptor) int {
	return 32 + 32*len(fields) + 1
}
