package credential

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Summary renders a payload into a human-readable multi-line description for
// scan confirmation screens. This is presentation only, not a contract.
func Summary(p *Payload) string {
	if p == nil {
		return "No credential"
	}

	data, _ := p.Data.(map[string]any)
	var b strings.Builder

	switch p.Type {
	case TypeObserverID:
		b.WriteString("Observer Credential\n")
		writeField(&b, "Observer", str(data, "name"))
		writeField(&b, "ID", str(data, "observerId"))
		writeField(&b, "Organization", str(data, "organization"))
	case TypeStationInfo:
		b.WriteString("Polling Station\n")
		writeField(&b, "Station", str(data, "stationName"))
		writeField(&b, "Code", str(data, "stationCode"))
		writeField(&b, "Parish", str(data, "parish"))
	case TypeAssignment:
		b.WriteString("Observer Assignment\n")
		writeField(&b, "Observer", str(data, "observerId"))
		writeField(&b, "Station", str(data, "stationCode"))
		writeField(&b, "Shift", str(data, "shift"))
	default:
		b.WriteString("Credential: " + p.Type + "\n")
		if raw, err := json.MarshalIndent(p.Data, "", "  "); err == nil {
			b.Write(raw)
			b.WriteString("\n")
		}
	}

	writeField(&b, "Issued", p.Timestamp)
	return strings.TrimRight(b.String(), "\n")
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func str(data map[string]any, key string) string {
	v, _ := data[key].(string)
	return v
}
