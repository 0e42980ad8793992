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

import "net/http"

type options struct {
	client      HttpClient
	header      http.Header
	nonUseDisk  bool
	resultField string
}

type option func(*options)

// WithHttpClient 使用自定义 HTTP 客户端实现。默认使用不设超时的 http.Client。
func WithHttpClient(client HttpClient) option {
	return func(o *options) {
		o.client = client
	}
}

// WithHeader 所有上传请求默认携带的请求头。Content-Type 不可设置。
func WithHeader(header http.Header) option {
	return func(o *options) {
		o.header = header.Clone()
	}
}

// WithNonUseDisk 未知大小的文件暂存数据不放置到外存，而是放置在内存。
func WithNonUseDisk() option {
	return func(o *options) {
		o.nonUseDisk = true
	}
}

// WithResultField 指定响应体中传递给成功回调的字段名。默认 result。
func WithResultField(name string) option {
	return func(o *options) {
		if len(name) > 0 {
			o.resultField = name
		}
	}
}
