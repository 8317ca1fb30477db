package entity

// TradeType is the direction of a position.
type TradeType string

const (
	Long  TradeType = "LONG"
	Short TradeType = "SHORT"
)

// TradeStatus is OPEN until the position is closed exactly once.
type TradeStatus string

const (
	Open   TradeStatus = "OPEN"
	Closed TradeStatus = "CLOSED"
)

// Exit reasons recorded on closed trades.
const (
	ReasonStopLoss   = "Stop Loss"
	ReasonTakeProfit = "Take Profit"
	ReasonTrendExit  = "Trend Exit"
)

// Trade is one position. Exit fields are zero while Status is Open.
type Trade struct {
	ID         string
	Type       TradeType
	EntryPrice float64
	EntryTime  int64
	ExitPrice  float64
	ExitTime   int64
	Profit     float64
	Status     TradeStatus
	Reason     string
}

// EquityPoint is the running balance at a point in time.
type EquityPoint struct {
	Time  int64
	Value float64
}

// BacktestResults aggregates one run.
// Trades holds closed trades in close order; a position still open at the
// end of the data is reported in OpenPosition and excluded from every metric.
type BacktestResults struct {
	TotalTrades  int
	WinRate      float64
	TotalProfit  float64
	Trades       []Trade
	FinalBalance float64
	MaxDrawdown  float64
	EquityCurve  []EquityPoint
	OpenPosition *Trade
}
