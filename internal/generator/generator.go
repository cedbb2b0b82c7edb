package generator

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/cxyo/fundnews/internal/processor"
)

// Generator 把处理完的批次渲染成单个自包含 HTML 文档。
// 同一批次输入必须得到逐字节相同的输出
type Generator struct {
	tmpl *template.Template
}

func New() (*Generator, error) {
	tmpl, err := template.New("digest").Funcs(template.FuncMap{
		"seq":  func(i int) int { return i + 1 },
		"join": func(items []string) string { return strings.Join(items, "、") },
	}).Parse(digestTemplate)
	if err != nil {
		return nil, fmt.Errorf("generator: parse template: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

// Render 渲染整个批次，输出 UTF-8 HTML
func (g *Generator) Render(batch processor.Batch) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, batch); err != nil {
		return nil, fmt.Errorf("generator: render: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteAtomic 先写同目录的临时文件再改名覆盖目标路径。
// 进程中途被杀时，上一次生成的文件保持原样
func WriteAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("generator: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("generator: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("generator: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("generator: replace %s: %w", path, err)
	}
	return nil
}
