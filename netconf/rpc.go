package netconf

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// RPCError is one <rpc-error> element from a rpc-reply, parsed for
// the vendor error-classification layer to match against.
type RPCError struct {
	Type     string
	Tag      string
	Severity string
	Message  string
}

func (e RPCError) String() string {
	return fmt.Sprintf("%s: %s - %s", e.Type, e.Tag, e.Message)
}

type rpcErrorXML struct {
	XMLName      xml.Name `xml:"rpc-error"`
	ErrorType    string   `xml:"error-type"`
	ErrorTag     string   `xml:"error-tag"`
	ErrorSeverity string  `xml:"error-severity"`
	ErrorMessage string   `xml:"error-message"`
}

type rpcReplyXML struct {
	XMLName xml.Name      `xml:"rpc-reply"`
	Errors  []rpcErrorXML `xml:"rpc-error"`
	Data    []byte        `xml:",innerxml"`
}

// extractErrors parses every rpc-error in a reply, if any.
func extractErrors(reply []byte) []RPCError {
	var parsed rpcReplyXML
	if err := xml.Unmarshal(reply, &parsed); err != nil {
		return nil
	}
	errs := make([]RPCError, 0, len(parsed.Errors))
	for _, e := range parsed.Errors {
		errs = append(errs, RPCError{
			Type:     e.ErrorType,
			Tag:      e.ErrorTag,
			Severity: e.ErrorSeverity,
			Message:  e.ErrorMessage,
		})
	}
	return errs
}

// call sends operation and returns the reply's parsed rpc-errors, if
// any were present, alongside the raw reply. It never itself
// classifies the error — RunEdit/Lock/Commit callers in the juniper
// package translate via the shared substring table.
func (t *Transport) call(operation string) ([]byte, []RPCError, error) {
	reply, err := t.RPC(operation)
	if err != nil {
		return nil, nil, err
	}
	if strings.Contains(string(reply), "<rpc-error>") {
		return reply, extractErrors(reply), nil
	}
	return reply, nil, nil
}

// Get performs a NETCONF get against the running configuration,
// optionally filtered to a subtree.
func (t *Transport) Get(filter string) ([]byte, []RPCError, error) {
	op := "<get/>"
	if filter != "" {
		op = fmt.Sprintf("<get>\n  <filter type=\"subtree\">\n%s\n  </filter>\n</get>", filter)
	}
	return t.call(op)
}

// GetConfig reads source (running or candidate), optionally filtered
// to a subtree. Filters always request a subtree, never the full
// config.
func (t *Transport) GetConfig(source, filter string) ([]byte, []RPCError, error) {
	if source == "" {
		source = "running"
	}
	op := fmt.Sprintf("<get-config>\n  <source>\n    <%s/>\n  </source>", source)
	if filter != "" {
		op += fmt.Sprintf("\n  <filter type=\"subtree\">\n%s\n  </filter>", filter)
	}
	op += "\n</get-config>"
	return t.call(op)
}

// EditConfig applies config to the candidate datastore. config must
// already carry its own operation="delete"/"replace" markers where
// needed — the xmlengine package is responsible for building that
// document; this layer only frames it.
func (t *Transport) EditConfig(config string) ([]byte, []RPCError, error) {
	op := fmt.Sprintf("<edit-config>\n  <target>\n    <candidate/>\n  </target>\n  <config>\n%s\n  </config>\n</edit-config>", config)
	return t.call(op)
}

// Lock locks the given datastore.
func (t *Transport) Lock(target string) ([]byte, []RPCError, error) {
	op := fmt.Sprintf("<lock>\n  <target>\n    <%s/>\n  </target>\n</lock>", target)
	return t.call(op)
}

// Unlock unlocks the given datastore.
func (t *Transport) Unlock(target string) ([]byte, []RPCError, error) {
	op := fmt.Sprintf("<unlock>\n  <target>\n    <%s/>\n  </target>\n</unlock>", target)
	return t.call(op)
}

// Commit commits the candidate configuration.
func (t *Transport) Commit() ([]byte, []RPCError, error) {
	return t.call("<commit/>")
}

// DiscardChanges discards uncommitted candidate changes.
func (t *Transport) DiscardChanges() ([]byte, []RPCError, error) {
	return t.call("<discard-changes/>")
}
