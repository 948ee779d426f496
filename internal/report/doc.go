// Package report records per-frame session results during an offline run
// and renders them as summary statistics, an interactive HTML dashboard
// (go-echarts) or a static PNG chart (gonum/plot).
package report
