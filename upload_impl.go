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
	"encoding/json"
	"errors"
	"net/http"
)

type uploadImpl struct {
	options
}

// Upload 上传文件。立即返回可用于中止上传的句柄，结果通过回调或句柄获取。
func (c *uploadImpl) Upload(req *Request) *Handle {
	ctx, cancel := context.WithCancelCause(context.Background())
	h := newHandle(cancel)
	if req == nil {
		cancel(nil)
		h.settle(StateFailed, errors.New("request is nil"))
		h.close()
		return h
	}

	// OnBegin 发生 panic 时不再发送请求。
	dispatched := false
	defer func() {
		if !dispatched {
			cancel(nil)
			if req.File != nil {
				closeIO(req.File)
			}
			h.settle(StateFailed, errors.New("upload aborted before dispatch"))
			h.close()
		}
	}()

	if req.OnBegin != nil {
		req.OnBegin(req.File, h, req.ExtraData)
	}

	go c.run(ctx, cancel, h, req)
	dispatched = true

	return h
}

// 发送请求，并通知结果。
func (c *uploadImpl) run(ctx context.Context, cancel context.CancelCauseFunc, h *Handle, req *Request) {
	defer h.close()
	defer cancel(nil)
	closeFile := func() {
		if req.File != nil {
			closeIO(req.File)
		}
	}

	// 生成请求期间被取消时，关闭文件以中断阻塞中的读取。
	stopClose := context.AfterFunc(ctx, closeFile)
	httpReq, pr, err := c.genReq(ctx, h, req)
	stopClose()
	var rsp *http.Response
	if err == nil {
		// 请求体连同文件交由 HttpClient 关闭。
		rsp, err = c.sendHttp(httpReq)
	} else {
		closeFile()
	}
	if pr != nil {
		pr.stop()
	}

	// 被取消时保持静默，只通知 OnCancel。
	if errors.Is(context.Cause(ctx), ErrCanceled) {
		closeRsp(rsp)
		h.settle(StateCanceled, ErrCanceled)
		if req.OnCancel != nil {
			req.OnCancel(req.File, req.ExtraData)
		}
		return
	}

	var result json.RawMessage
	if err == nil {
		result, err = c.parseResult(rsp)
	}
	if err != nil {
		h.settle(StateFailed, err)
		if req.OnError != nil {
			req.OnError(err, req.File, req.ExtraData)
		}
		return
	}

	h.settle(StateSucceeded, nil)
	if req.OnSuccess != nil {
		req.OnSuccess(result, req.File, req.ExtraData)
	}
}

// 生成 HTTP 请求。
func (c *uploadImpl) genReq(ctx context.Context, h *Handle, req *Request) (*http.Request, *progressReader, error) {
	if req.File == nil {
		return nil, nil, ErrNilFile
	}
	method, err := suitMethod(req.Method)
	if err != nil {
		return nil, nil, err
	}

	// 取消后不再读取文件。
	req.File.bind(ctx)
	if ctx.Err() != nil {
		return nil, nil, context.Cause(ctx)
	}

	// 生成请求体。
	if err = req.File.spool(c.nonUseDisk); err != nil {
		return nil, nil, err
	}
	body, err := newFormBody(req.ExtraData, suitFileAttrName(req.FileAttrName), req.File)
	if err != nil {
		return nil, nil, err
	}

	// 取消后不再发送请求。
	if ctx.Err() != nil {
		return nil, nil, context.Cause(ctx)
	}

	pr := newProgressReader(ctx, body, req.File, body.size, func(p Progress) {
		h.transit(StateDispatched, StateProgressing)
		if req.OnProgress != nil {
			req.OnProgress(req.File, p, req.ExtraData)
		}
	})
	httpReq, err := http.NewRequestWithContext(ctx, method, req.Url, pr)
	if err != nil {
		return nil, nil, err
	}
	httpReq.ContentLength = body.size
	httpReq.Header = c.genHeader(req.Header, body.contentType)
	h.transit(StateCreated, StateDispatched)

	return httpReq, pr, nil
}
