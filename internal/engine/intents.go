// Package engine drives the lead-intake conversation: it advances one
// session per inbound event and emits intents for the collaborators to
// carry out.
package engine

// Input is one inbound chat event after transport decoding. SelectionID is
// set when the contact tapped a button or list row; Text carries free text
// (and the selection title, for logging).
type Input struct {
	MessageID   string
	Text        string
	SelectionID string
}

// Button is one of up to three quick replies offered with a message.
type Button struct {
	ID    string
	Title string
}

// ListRow is one selectable row of a list message.
type ListRow struct {
	ID          string
	Title       string
	Description string
}

// Intent is a single side effect the engine wants carried out. The engine
// never builds channel payloads; the transport adapter renders these.
type Intent interface {
	isIntent()
}

// SendText asks the transport to deliver a plain text message.
type SendText struct {
	Body string
}

// SendButtons asks the transport to deliver a message with quick replies.
type SendButtons struct {
	Body    string
	Buttons []Button
}

// SendList asks the transport to deliver a list picker.
type SendList struct {
	Header      string
	Body        string
	ButtonLabel string
	Rows        []ListRow
}

// UpsertContact mirrors the session's contact data into the CRM and caches
// the returned ref on the session.
type UpsertContact struct{}

// CreateDeal opens a CRM deal for the lead, associated with the upserted
// contact.
type CreateDeal struct {
	Title       string
	Description string
}

// NotifySales emails the sales team a snapshot of the lead. Best-effort.
type NotifySales struct {
	Event string
}

func (SendText) isIntent()      {}
func (SendButtons) isIntent()   {}
func (SendList) isIntent()      {}
func (UpsertContact) isIntent() {}
func (CreateDeal) isIntent()    {}
func (NotifySales) isIntent()   {}
