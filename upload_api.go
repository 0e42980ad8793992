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
	"encoding/json"
	"net/http"
)

// Progress 上传进度。
type Progress struct {
	// Percent 已上传百分比，取值 [0,100]。
	Percent int
	// Total 请求体总字节数，未知时为 -1。
	Total int64
}

// Request 一次上传的描述。
type Request struct {
	// Url 上传地址。
	Url string
	// File 上传的文件。
	File *File
	// ExtraData 除了文件外，需要上传的其它表单字段。仅标量值会被提交。
	ExtraData map[string]any
	// Header 请求头，覆盖客户端默认请求头。Content-Type 不可覆盖。
	Header http.Header
	// FileAttrName 文件对象的表单属性名，默认 file。
	FileAttrName string
	// Method 以 POST 还是以 PUT 方式上传文件，默认 POST。
	Method string

	// OnBegin 上传开始时的回调，在发送请求前同步调用。
	OnBegin func(file *File, handle *Handle, extraData map[string]any)
	// OnProgress 上传过程中的回调，有可能会多次触发，每次代表不同的上传进度。
	//
	// 注意：该回调在读取请求体的协程中执行，可能不是发起上传的协程，回调内不可阻塞。
	OnProgress func(file *File, progress Progress, extraData map[string]any)
	// OnSuccess 上传成功时的回调，result 是响应体中的 result 字段。
	OnSuccess func(result json.RawMessage, file *File, extraData map[string]any)
	// OnError 上传失败时的回调。
	OnError func(err error, file *File, extraData map[string]any)
	// OnCancel 上传被取消时的回调。取消后 OnSuccess 和 OnError 都不会被调用。
	OnCancel func(file *File, extraData map[string]any)
}

type Uploader interface {
	// Upload 上传文件。立即返回可用于中止上传的句柄，结果通过回调或句柄获取。
	Upload(req *Request) *Handle
}
