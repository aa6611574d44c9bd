// Package aggregator 提供压测结果的聚合器。
//
// 聚合器持有唯一的共享可变状态：成功计数、失败计数和延迟样本。
// 所有写入都经由 Record 在同一把互斥锁内完成，计数和样本作为一组原子更新。
package aggregator
