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

package upload_test

import (
	"bytes"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sync"
	"sync/atomic"

	upload "gitee.com/ivfzhou/form-upload"
	gu "gitee.com/ivfzhou/goroutine-util"
)

var CloseCount int32

type mockTransport struct {
	fn func(*http.Request) (*http.Response, error)
}

type readCloser struct {
	closeErr    error
	readErr     error
	closeFlag   int32
	data        []byte
	readCount   int
	total       int
	interceptor func()
}

// Recorder 记录一次上传的回调。
type Recorder struct {
	Begins     int32
	Successes  int32
	Errors     int32
	Cancels    int32
	Err        gu.AtomicError
	Violation  gu.AtomicError
	Handle     *upload.Handle
	lock       sync.Mutex
	Percents   []int
	Totals     []int64
	Result     json.RawMessage
	Terminated int32
}

func NewReader(data []byte, interceptor func(), closeErr, readErr error) io.ReadCloser {
	atomic.AddInt32(&CloseCount, 1)
	return &readCloser{
		closeErr:    closeErr,
		readErr:     readErr,
		data:        data,
		total:       len(data),
		interceptor: interceptor,
	}
}

func MakeBytesWithSize(n int) []byte {
	data := make([]byte, n)
	n, err := crand.Read(data)
	if err != nil || n != len(data) {
		panic("rand.Read fail")
	}
	return data
}

func MockHttpClient(fn func(*http.Request) (*http.Response, error)) *http.Client {
	return &http.Client{
		Transport: &mockTransport{
			fn: fn,
		},
	}
}

func JsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       NewReader([]byte(body), nil, nil, nil),
	}
}

// Attach 设置请求的全部回调。
func (r *Recorder) Attach(req *upload.Request) *upload.Request {
	req.OnBegin = func(_ *upload.File, h *upload.Handle, _ map[string]any) {
		atomic.AddInt32(&r.Begins, 1)
		r.Handle = h
	}
	req.OnProgress = func(_ *upload.File, p upload.Progress, _ map[string]any) {
		r.lock.Lock()
		defer r.lock.Unlock()
		if atomic.LoadInt32(&r.Terminated) > 0 {
			r.Violation.Set(fmt.Errorf("progress after terminal callback"))
		}
		r.Percents = append(r.Percents, p.Percent)
		r.Totals = append(r.Totals, p.Total)
	}
	req.OnSuccess = func(result json.RawMessage, _ *upload.File, _ map[string]any) {
		atomic.AddInt32(&r.Terminated, 1)
		atomic.AddInt32(&r.Successes, 1)
		r.lock.Lock()
		r.Result = result
		r.lock.Unlock()
	}
	req.OnError = func(err error, _ *upload.File, _ map[string]any) {
		atomic.AddInt32(&r.Terminated, 1)
		atomic.AddInt32(&r.Errors, 1)
		r.Err.Set(err)
	}
	req.OnCancel = func(_ *upload.File, _ map[string]any) {
		atomic.AddInt32(&r.Terminated, 1)
		atomic.AddInt32(&r.Cancels, 1)
	}
	return req
}

// ParseForm 读取完整请求体，并解析表单。
func ParseForm(req *http.Request) (*multipart.Form, error) {
	bs, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	_, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	return multipart.NewReader(bytes.NewReader(bs), params["boundary"]).ReadForm(32 << 20)
}

func (r *Recorder) ProgressPercents() []int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]int(nil), r.Percents...)
}

// RoundTrip 与 http.Transport 一致，总是关闭请求体。
func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		defer func() { _ = req.Body.Close() }()
	}
	return m.fn(req)
}

func (rc *readCloser) Read(p []byte) (int, error) {
	if rc.interceptor != nil {
		rc.interceptor()
	}
	if len(rc.data) <= 0 {
		if rc.readErr != nil {
			rc.data = nil
			return 0, rc.readErr
		}
		return 0, io.EOF
	}
	if rc.readErr != nil {
		if rc.readCount >= rc.total/2 {
			rc.data = nil
			return 0, rc.readErr
		}
	}
	n := copy(p, rc.data)
	rc.data = rc.data[n:]
	rc.readCount += n
	if len(rc.data) <= 0 {
		if rc.readErr != nil {
			rc.data = nil
			return n, rc.readErr
		}
		return n, io.EOF
	}
	return n, nil
}

func (rc *readCloser) Close() error {
	if atomic.CompareAndSwapInt32(&rc.closeFlag, 0, 1) {
		atomic.AddInt32(&CloseCount, -1)
		return rc.closeErr
	}
	return fmt.Errorf("reader already closed")
}
