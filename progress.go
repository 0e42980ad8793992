/*
 * Copyright (c) 2025 ivfzhou
 * form-upload is licensed under Mulan PSL v2.
 * You can use this software according to the terms and conditions of the Mulan PSL v2.
 * You may obtain a copy of Mulan PSL v2 at:
 *          http://license.coscl.org.cn/MulanPSL2
 * THIS SOFTWARE IS PROVIDED ON AN "AS IS" BASIS, WITHOUT WARRANTIES OF ANY KIND,
 * EITHER EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO NON-INFRINGEMENT,
 * MERCHANTABILITY OR FIT FOR A PARTICULAR PURPOSE.
 * See the Mulan PSL v2 for more details.
 */

package upload

import (
	"context"
	"io"
	"math"
	"sync"
)

// 统计请求体已被读取的字节数，每次读取触发一次进度回调。关闭时关闭底层文件。
type progressReader struct {
	ctx     context.Context
	r       io.Reader
	closer  io.Closer
	total   int64
	fn      func(Progress)
	mu      sync.Mutex
	loaded  int64
	stopped bool
}

func newProgressReader(ctx context.Context, r io.Reader, closer io.Closer, total int64,
	fn func(Progress)) *progressReader {
	return &progressReader{ctx: ctx, r: r, closer: closer, total: total, fn: fn}
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.report(int64(n))
	}
	return n, err
}

func (r *progressReader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// 回调在持有锁时执行，stop 返回后不会再有回调。
func (r *progressReader) report(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded += n
	if r.stopped || r.ctx.Err() != nil {
		return
	}
	r.fn(Progress{Percent: Percent(r.loaded, r.total), Total: r.total})
}

// 停止后不再触发进度回调。
func (r *progressReader) stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
}

// Percent 计算上传百分比，round(loaded/total*100)。total 非正数时为 0。
func Percent(loaded, total int64) int {
	if total <= 0 {
		return 0
	}
	f := math.Round(float64(loaded) / float64(total) * 100)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(min(f, 100))
}
