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
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	iu "gitee.com/ivfzhou/io-util"
	"github.com/gabriel-vasile/mimetype"
)

var errFileClosed = errors.New("file is closed")

// File 上传的文件。文件内容只能被上传一次，上传结束后文件被关闭。
type File struct {
	// Name 文件名。
	Name string
	// Size 文件大小，小于 0 表示未知。
	Size int64
	// ContentType 文件内容类型，为空时根据文件内容探测。
	ContentType string

	ctx       context.Context
	r         io.Reader
	mu        sync.Mutex
	closer    io.Closer
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// NewFileFromBytes 从字节数组创建文件。
func NewFileFromBytes(name string, data []byte) *File {
	return &File{Name: name, Size: int64(len(data)), r: bytes.NewReader(data)}
}

// NewFileFromReader 从读取流创建文件。size 小于 0 表示大小未知，上传前会先暂存文件内容。
//
// 注意：r 若实现了 io.Closer，上传结束或被取消时将被关闭，关闭需能中断阻塞中的读取。
func NewFileFromReader(name string, size int64, r io.Reader) *File {
	f := &File{Name: name, Size: size, r: r}
	if closer, ok := r.(io.Closer); ok {
		f.closer = closer
	}
	return f
}

// NewFileFromDisk 从磁盘文件创建文件。
func NewFileFromDisk(filePath string) (*File, error) {
	// 获取文件信息。
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	if fileInfo.IsDir() {
		return nil, errors.New("file path is a directory")
	}

	// 打开文件流。
	fileObj, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	return &File{
		Name:   filepath.Base(filePath),
		Size:   fileInfo.Size(),
		r:      fileObj,
		closer: fileObj,
	}, nil
}

// Read 读取文件内容。上传被取消后返回取消原因。
func (f *File) Read(p []byte) (int, error) {
	if f.ctx != nil && f.ctx.Err() != nil {
		return 0, context.Cause(f.ctx)
	}
	if f.r == nil {
		return 0, io.EOF
	}
	return f.r.Read(p)
}

// Close 关闭文件。可多次调用，可与读取并发调用。
func (f *File) Close() error {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.closed = true
		closer := f.closer
		f.mu.Unlock()
		if closer != nil {
			f.closeErr = closer.Close()
		}
	})
	return f.closeErr
}

// 绑定上传的上下文。
func (f *File) bind(ctx context.Context) {
	f.ctx = ctx
}

// 大小未知时，暂存文件内容以获知大小。
func (f *File) spool(nonUseDisk bool) error {
	if f.Size >= 0 {
		return nil
	}

	var (
		wc iu.WriteAtCloser
		rc io.ReadCloser
	)
	if nonUseDisk {
		var rc2 iu.ReadCloser
		wc, rc2 = iu.NewWriteAtToReader2()
		rc = iu.ToReader(rc2)
	} else {
		wc, rc = iu.NewWriteAtToReader()
	}

	n, err := iu.CopyReaderToWriterAt(f, wc, 0, nonUseDisk)
	printError(wc.CloseByError(err))
	if err != nil {
		closeIO(rc)
		return err
	}

	// 原读取流已读完，替换为暂存数据。
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		closeIO(rc)
		return errFileClosed
	}
	origin := f.closer
	f.r = rc
	f.closer = rc
	f.Size = n
	f.mu.Unlock()
	closeIO(origin)

	return nil
}

// 获取文件内容类型，未指定时读取文件头部探测。
func (f *File) detectContentType() (string, error) {
	if len(f.ContentType) > 0 {
		return f.ContentType, nil
	}

	head := make([]byte, max(SniffSize, 0))
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	head = head[:n]

	// 读出的头部放回读取流。
	if f.r != nil {
		f.r = io.MultiReader(bytes.NewReader(head), f.r)
	}
	f.ContentType = mimetype.Detect(head).String()

	return f.ContentType, nil
}
