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
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// 读取响应体并关闭。
func readAndClose(rsp *http.Response) []byte {
	if rsp != nil && rsp.Body != nil {
		bs, err := io.ReadAll(rsp.Body)
		printError(err)
		closeRsp(rsp)
		return bs
	}
	return nil
}

// 关闭流。
func closeIO(closer io.Closer) {
	if closer != nil {
		printError(closer.Close())
	}
}

// 关闭 HTTP 响应对象的响应体。
func closeRsp(r *http.Response) {
	if r != nil && r.Body != nil {
		printError(r.Body.Close())
	}
}

// 向标准错误输出流打印错误信息。
func printError(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "form-upload: %v\n", err)
	}
}

// 纠正文件表单属性名。
func suitFileAttrName(name string) string {
	if len(name) <= 0 {
		return DefaultFileAttrName
	}
	return name
}

// 纠正请求方法。
func suitMethod(method string) (string, error) {
	switch m := strings.ToUpper(strings.TrimSpace(method)); m {
	case "", http.MethodPost:
		return http.MethodPost, nil
	case http.MethodPut:
		return http.MethodPut, nil
	default:
		return "", fmt.Errorf("method %s is not supported", method)
	}
}
