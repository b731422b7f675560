package events

const (
	// KindExchangeCompleted identifies normal stream termination.
	KindExchangeCompleted Kind = "exchange.completed"
	// KindExchangeFailed identifies stream termination with an error.
	KindExchangeFailed Kind = "exchange.failed"
)

// ExchangeCompleted marks normal termination of an exchange. FinalAnswer is
// the text appended to the transcript, empty when the exchange produced no
// assistant entry.
type ExchangeCompleted struct {
	Base
	ExchangeID  string
	FinalAnswer string
}

// NewExchangeCompleted creates an exchange completed event.
func NewExchangeCompleted(exchangeID, finalAnswer string) ExchangeCompleted {
	return ExchangeCompleted{Base: NewBase(KindExchangeCompleted), ExchangeID: exchangeID, FinalAnswer: finalAnswer}
}

// ExchangeFailed marks termination of an exchange with a transport or
// model-reported error. Buffers produced before the failure stay valid and
// presentable.
type ExchangeFailed struct {
	Base
	ExchangeID string
	Message    string
}

// NewExchangeFailed creates an exchange failed event.
func NewExchangeFailed(exchangeID, message string) ExchangeFailed {
	return ExchangeFailed{Base: NewBase(KindExchangeFailed), ExchangeID: exchangeID, Message: message}
}
