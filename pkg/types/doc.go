// Package types 定义压测工具各组件之间共享的数据类型。
package types
