package gemini

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"xauusd_backend/internal/feature/backtest/domain/entity"
)

// MaxWords は解説文の上限語数です。
const MaxWords = 300

// BuildPrompt はバックテスト結果をアナリスト向けの評価依頼文に整形します。
// 金額と割合は小数点以下2桁に丸めます。
func BuildPrompt(results entity.BacktestResults, params entity.StrategyParams) string {
	var b strings.Builder
	b.WriteString("As a senior quantitative analyst, evaluate this XAUUSD (Gold) backtesting result.\n")
	b.WriteString("Strategy Parameters:\n")
	fmt.Fprintf(&b, "- RSI Period: %d\n", params.RSIPeriod)
	fmt.Fprintf(&b, "- RSI Overbought/Oversold: %s/%s\n", num(params.RSIOverbought), num(params.RSIOversold))
	fmt.Fprintf(&b, "- SMA Period: %d\n", params.SMAPeriod)
	fmt.Fprintf(&b, "- EMA Period: %d\n", params.EMAPeriod)
	fmt.Fprintf(&b, "- Stop Loss / Take Profit: %s / %s pips\n", num(params.StopLossPips), num(params.TakeProfitPips))
	fmt.Fprintf(&b, "- Initial Balance: $%s\n", money(params.InitialBalance))
	b.WriteString("\nPerformance Metrics:\n")
	fmt.Fprintf(&b, "- Total Trades: %d\n", results.TotalTrades)
	fmt.Fprintf(&b, "- Win Rate: %s%%\n", money(results.WinRate))
	fmt.Fprintf(&b, "- Total Profit: $%s\n", money(results.TotalProfit))
	fmt.Fprintf(&b, "- Final Balance: $%s\n", money(results.FinalBalance))
	fmt.Fprintf(&b, "- Max Drawdown: %s%%\n", money(results.MaxDrawdown))
	if p := results.OpenPosition; p != nil {
		fmt.Fprintf(&b, "- Open Position: %s from %s (unrealized, excluded from the metrics)\n", p.Type, money(p.EntryPrice))
	}
	fmt.Fprintf(&b, "\nProvide a concise analysis (max %d words) focusing on risk management, strategy robustness, and potential improvements. Use a professional tone.\n", MaxWords)
	return b.String()
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// num prints thresholds without trailing zeros (70, 0.5).
func num(v float64) string {
	return decimal.NewFromFloat(v).String()
}
