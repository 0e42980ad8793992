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
	"errors"
	"net/http"
)

var (
	// ErrCanceled 上传被调用方取消。
	ErrCanceled = errors.New("upload canceled")
	// ErrNilFile 未提供上传文件。
	ErrNilFile = errors.New("file is nil")
	// SniffSize 探测文件内容类型时读取的字节数。不可在文件上传期间修改值。
	SniffSize = 3072
	// DefaultFileAttrName 文件对象默认的表单属性名。
	DefaultFileAttrName = "file"
	// DefaultResultField 响应体中传递给成功回调的字段名。
	DefaultResultField = "result"
)

type Client interface {
	Uploader
}

// NewClient 创建表单上传客户端。客户端创建后配置不可变，可被多个协程共用。
func NewClient(opts ...option) Client {
	c := &uploadImpl{}
	c.resultField = DefaultResultField

	// 设置参数。
	for _, v := range opts {
		if v == nil {
			continue
		}
		v(&c.options)
	}

	// 上传不设超时，大文件传输不能被固定时限中断。
	if c.client == nil {
		c.client = &http.Client{Timeout: 0}
	}

	return c
}
