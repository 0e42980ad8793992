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
	"strconv"
	"sync/atomic"

	gu "gitee.com/ivfzhou/goroutine-util"
)

// State 上传所处阶段。
type State int32

const (
	// StateCreated 已创建，尚未发送请求。
	StateCreated State = iota
	// StateDispatched 请求已发出。
	StateDispatched
	// StateProgressing 请求体传输中。
	StateProgressing
	// StateSucceeded 上传成功。
	StateSucceeded
	// StateFailed 上传失败。
	StateFailed
	// StateCanceled 上传被取消。
	StateCanceled
)

var stateNames = [...]string{"created", "dispatched", "progressing", "succeeded", "failed", "canceled"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Terminal 是否是终止状态。
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCanceled
}

// Handle 一次上传的句柄。
type Handle struct {
	cancel context.CancelCauseFunc
	done   chan struct{}
	state  atomic.Int32
	err    gu.AtomicError
}

func newHandle(cancel context.CancelCauseFunc) *Handle {
	return &Handle{cancel: cancel, done: make(chan struct{})}
}

// Cancel 中止上传。可多次调用，上传结束后调用无效果。
func (h *Handle) Cancel() {
	h.cancel(ErrCanceled)
}

// Done 上传结束后关闭，此时所有回调均已执行完毕。
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait 等待上传结束，返回失败原因。取消时返回 ErrCanceled。
func (h *Handle) Wait() error {
	<-h.done
	return h.err.Get()
}

// Err 上传结束后返回失败原因，未结束时返回 nil。
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err.Get()
	default:
		return nil
	}
}

// State 当前所处阶段。
func (h *Handle) State() State {
	return State(h.state.Load())
}

func (h *Handle) transit(from, to State) bool {
	return h.state.CompareAndSwap(int32(from), int32(to))
}

func (h *Handle) settle(state State, err error) {
	if err != nil {
		h.err.Set(err)
	}
	h.state.Store(int32(state))
}

func (h *Handle) close() {
	close(h.done)
}
