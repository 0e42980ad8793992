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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
)

// HttpClient 发送 HTTP 请求的能力。*http.Client 实现了该接口。
//
// 注意：与 http.Client 一致，Do 需负责关闭请求体，即使返回了错误。
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError 服务端响应了非成功的响应码。
type StatusError struct {
	StatusCode int
	Method     string
	Url        string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status code is %d, method is %v, url is %v, rspBody is %s",
		e.StatusCode, e.Method, e.Url, string(e.Body))
}

// 发送 HTTP 请求。
func (c *uploadImpl) sendHttp(req *http.Request) (*http.Response, error) {
	rsp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if rsp == nil {
		return nil, errors.New("http response object is nil")
	}

	// 非成功的响应码就返回错误。
	if !(rsp.StatusCode >= 200 && rsp.StatusCode < 300) {
		return nil, &StatusError{
			StatusCode: rsp.StatusCode,
			Method:     req.Method,
			Url:        req.URL.String(),
			Body:       readAndClose(rsp),
		}
	}

	return rsp, nil
}

// 生成请求头，调用方请求头覆盖默认请求头。
func (c *uploadImpl) genHeader(header http.Header, contentType string) http.Header {
	h := make(http.Header, len(c.header)+len(header)+1)
	for k, v := range c.header {
		h[http.CanonicalHeaderKey(k)] = slices.Clone(v)
	}
	for _, k := range slices.Sorted(maps.Keys(header)) {
		h[http.CanonicalHeaderKey(k)] = slices.Clone(header[k])
	}
	h.Set("Content-Type", contentType)
	return h
}

// 读取响应体，取出 result 字段。
func (c *uploadImpl) parseResult(rsp *http.Response) (json.RawMessage, error) {
	bs, err := io.ReadAll(rsp.Body)
	closeRsp(rsp)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(bs)) <= 0 {
		return nil, nil
	}

	var rspData map[string]json.RawMessage
	if err = json.Unmarshal(bs, &rspData); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return rspData[c.resultField], nil
}
