// Package report 将聚合器的最终快照转换为摘要。
//
// 百分位使用 nearest-rank 规则：升序排序后取 rank = ceil(p/100 × N)，
// 值为 sorted[rank-1]。P95 至少需要 20 个样本，P99 至少需要 100 个样本，
// 样本不足时对应字段为 nil，不会打印也不会出现在 JSON 中。
//
// 摘要可以渲染为文本、JSON 或 Prometheus textfile。
package report
