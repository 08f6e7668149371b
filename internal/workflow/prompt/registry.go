// Package prompt 管理内嵌的提示词模板
package prompt

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// 模板文件成对出现：<id>.system.txt 与 <id>.user.txt
//
//go:embed templates/*.txt
var templatesFS embed.FS

const (
	templatesDir = "templates"
	systemSuffix = ".system.txt"
	userSuffix   = ".user.txt"
)

// ErrUnknownPrompt 模板不存在
var ErrUnknownPrompt = errors.New("unknown prompt id")

type PromptID string

const PromptHeadlineV1 PromptID = "headline_v1"

// Registry 首次使用时解析全部模板，之后只读
type Registry struct {
	once      sync.Once
	loadErr   error
	templates map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{}
}

// ChatTemplate 返回 id 对应的 FString 模板，同一 id 总是返回同一实例
func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, errors.New("prompt registry is nil")
	}
	r.once.Do(func() {
		r.templates, r.loadErr = loadTemplates(templatesFS)
	})
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	tpl, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrompt, id)
	}
	return tpl, nil
}

func loadTemplates(fsys fs.FS) (map[PromptID]einoprompt.ChatTemplate, error) {
	systemFiles, err := fs.Glob(fsys, path.Join(templatesDir, "*"+systemSuffix))
	if err != nil {
		return nil, err
	}

	out := make(map[PromptID]einoprompt.ChatTemplate, len(systemFiles))
	for _, systemFile := range systemFiles {
		id := PromptID(strings.TrimSuffix(path.Base(systemFile), systemSuffix))
		system, err := readText(fsys, systemFile)
		if err != nil {
			return nil, err
		}
		user, err := readText(fsys, path.Join(templatesDir, string(id)+userSuffix))
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", id, err)
		}
		out[id] = einoprompt.FromMessages(
			schema.FString,
			schema.SystemMessage(system),
			schema.UserMessage(user),
		)
	}
	return out, nil
}

func readText(fsys fs.FS, name string) (string, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
