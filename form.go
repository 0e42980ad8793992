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
	"encoding"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/textproto"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// 表单请求体。字段在前，文件在后。
type formBody struct {
	io.Reader
	size        int64
	contentType string
}

// 生成表单请求体。
func newFormBody(extraData map[string]any, fileAttrName string, file *File) (*formBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	// 写入表单字段。
	for _, k := range formKeys(extraData) {
		v, ok := formValue(extraData[k])
		if !ok {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}

	// 写入文件头。
	contentType, err := file.detectContentType()
	if err != nil {
		return nil, err
	}
	fileName := file.Name
	if len(fileName) <= 0 {
		fileName = "blob"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fileAttrName), quoteEscaper.Replace(fileName)))
	header.Set("Content-Type", contentType)
	if _, err = w.CreatePart(header); err != nil {
		return nil, err
	}
	headLen := buf.Len()

	// 写入结束分隔符。
	if err = w.Close(); err != nil {
		return nil, err
	}
	bs := buf.Bytes()
	head, tail := bs[:headLen], bs[headLen:]

	return &formBody{
		Reader:      io.MultiReader(bytes.NewReader(head), file, bytes.NewReader(tail)),
		size:        int64(len(head)) + file.Size + int64(len(tail)),
		contentType: w.FormDataContentType(),
	}, nil
}

// 获取有效的字段名，按字典序排列。
func formKeys(extraData map[string]any) []string {
	keys := make([]string, 0, len(extraData))
	for _, k := range slices.Sorted(maps.Keys(extraData)) {
		if len(k) > 0 {
			keys = append(keys, k)
		}
	}
	return keys
}

// 将标量值转为表单字段值。非标量值不提交。
func formValue(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if m, ok := v.(encoding.TextMarshaler); ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", false
		}
		bs, err := m.MarshalText()
		if err != nil {
			return "", false
		}
		return string(bs), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	default:
		return "", false
	}
}
