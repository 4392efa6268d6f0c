package priceproxy

// InstructionType is the variant tag leading every instruction's data.
type InstructionType uint8

const (
	InstructionTypeCreatePriceFeed InstructionType = iota
	InstructionTypeWritePrice
	InstructionTypeUpdatePrice
	InstructionTypeAlterPriceFeed
	InstructionTypeDeletePriceFeed
	InstructionTypeVersion

	InstructionTypeUnknown InstructionType = 255
)

func (t InstructionType) String() string {
	switch t {
	case InstructionTypeCreatePriceFeed:
		return "CreatePriceFeed"
	case InstructionTypeWritePrice:
		return "WritePrice"
	case InstructionTypeUpdatePrice:
		return "UpdatePrice"
	case InstructionTypeAlterPriceFeed:
		return "AlterPriceFeed"
	case InstructionTypeDeletePriceFeed:
		return "DeletePriceFeed"
	case InstructionTypeVersion:
		return "Version"
	default:
		return "Unknown"
	}
}

// GetInstructionType reads the variant tag from raw instruction data.
func GetInstructionType(data []byte) InstructionType {
	if len(data) == 0 {
		return InstructionTypeUnknown
	}
	if t := InstructionType(data[0]); t <= InstructionTypeVersion {
		return t
	}
	return InstructionTypeUnknown
}
