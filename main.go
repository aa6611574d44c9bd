// gateway-bench 是支付网关的闭环压测工具。
package main

import (
	"os"

	"yqhp/gateway-bench/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
