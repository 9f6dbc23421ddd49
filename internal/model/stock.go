package model

// ComplianceFlag classifies a stock against the shariah screening list.
type ComplianceFlag int

const (
	ComplianceUnknown ComplianceFlag = iota
	Compliant
	NonCompliant
)

// Marker returns the prefix shown next to the stock name in notifications.
// Unknown stocks render the same as compliant ones: no marker.
func (f ComplianceFlag) Marker() string {
	if f == NonCompliant {
		return "[NS] "
	}
	return ""
}

func (f ComplianceFlag) String() string {
	switch f {
	case Compliant:
		return "Compliant"
	case NonCompliant:
		return "NonCompliant"
	default:
		return "Unknown"
	}
}

// StockEntry is one catalogued stock with its compliance classification.
type StockEntry struct {
	Name string
	Flag ComplianceFlag
}
