package notifier

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"AlphaScanner/internal/model"
)

// FormatScanReport renders the top results of a scan as a Telegram HTML message.
func FormatScanReport(report *model.ScanReport, topN int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>AlphaScanner 选股报告</b> | %s\n", report.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("扫描 %d | 评估 %d | 入选 %d | 耗时 %s\n\n",
		report.Scanned, report.Evaluated, len(report.Published),
		report.FinishedAt.Sub(report.StartedAt).Round(1e9)))

	if len(report.Published) == 0 {
		b.WriteString("今日无符合条件的标的\n")
	}

	shown := report.Published
	if topN > 0 && len(shown) > topN {
		shown = shown[:topN]
	}
	for i, r := range shown {
		b.WriteString(FormatResult(i+1, r))
		b.WriteString("\n")
	}
	if len(shown) < len(report.Published) {
		b.WriteString(fmt.Sprintf("… 另有 %d 只未列出\n", len(report.Published)-len(shown)))
	}

	if len(report.Skipped) > 0 {
		keys := make([]string, 0, len(report.Skipped))
		for k := range report.Skipped {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%d", k, report.Skipped[k])
		}
		b.WriteString(fmt.Sprintf("\n<i>跳过: %s</i>\n", strings.Join(parts, ", ")))
	}
	return b.String()
}

// FormatResult renders one published symbol.
func FormatResult(rank int, r model.ScanResult) string {
	var b strings.Builder
	seen := ""
	if r.SeenBefore {
		seen = " 🔁"
	}
	b.WriteString(fmt.Sprintf("<b>%d. %s %s</b> 评分 %d%s\n", rank, r.Symbol, html.EscapeString(r.Name), r.TotalScore, seen))
	b.WriteString(fmt.Sprintf("   收盘 %.2f | 买入 %s~%s | 止损 %s | 止盈 %s\n",
		r.Close, r.Plan.EntryLow.StringFixed(2), r.Plan.EntryHigh.StringFixed(2),
		r.Plan.StopLoss.StringFixed(2), r.Plan.TakeProfit.StringFixed(2)))
	if len(r.BullishPatterns) > 0 {
		b.WriteString(fmt.Sprintf("   🟢 %s\n", html.EscapeString(strings.Join(r.BullishPatterns, " "))))
	}
	if len(r.BearishPatterns) > 0 {
		b.WriteString(fmt.Sprintf("   🔴 %s\n", html.EscapeString(strings.Join(r.BearishPatterns, " "))))
	}
	b.WriteString(fmt.Sprintf("   CMF %s | CCI %s | ADX %s | RSI %s\n",
		reading(r.CMF, 2), reading(r.CCI, 0), reading(r.ADX, 0), reading(r.RSI, 0)))
	if len(r.Factors) > 0 {
		parts := make([]string, len(r.Factors))
		for i, f := range r.Factors {
			parts[i] = fmt.Sprintf("%s%+d", f.Label, f.Delta)
		}
		b.WriteString(fmt.Sprintf("   📋 %s\n", html.EscapeString(strings.Join(parts, " "))))
	}
	if r.SentimentNote != "" {
		b.WriteString(fmt.Sprintf("   📰 %s\n", html.EscapeString(r.SentimentNote)))
	}
	return b.String()
}

// reading renders an indicator value, or "-" when it was undefined.
func reading(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "🤖 <b>AlphaScanner</b>\n\n" +
		"/scan - 立即执行一次扫描\n" +
		"/last - 查看最近一次扫描结果\n" +
		"/help - 显示帮助"
}
