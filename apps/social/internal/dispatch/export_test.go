package dispatch

import (
	"context"
	"time"
)

// SetRunner 测试中替换为同步执行
func SetRunner(d *Dispatcher, run func(ctx context.Context, task func(ctx context.Context), timeout time.Duration)) {
	d.run = run
}
