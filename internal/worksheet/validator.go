package worksheet

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"
)

// Validator screens worksheet files before their content reaches a model.
// Checks run in order and stop at the first failure:
// 1. File exists and is a regular file
// 2. Extension is allowed
// 3. Size is within the limit and non-zero
// 4. Content is text, not binary
// 5. Content matches no denylist pattern
type Validator struct {
	maxFileSize int64
	extensions  []string
	deny        []denyRule
	mu          sync.RWMutex
}

type denyRule struct {
	re     *regexp.Regexp
	reason string
}

// policyFile represents the validation policy YAML structure.
type policyFile struct {
	Validation struct {
		MaxFileSize int64         `yaml:"max_file_size"`
		Extensions  []string      `yaml:"extensions"`
		Deny        []DenyPattern `yaml:"deny"`
	} `yaml:"validation"`
}

// NewValidator creates a validator with the default policy.
func NewValidator() *Validator {
	v := &Validator{
		maxFileSize: DefaultMaxFileSize,
		extensions:  append([]string{}, DefaultExtensions...),
	}
	for _, p := range DefaultDenyPatterns {
		v.deny = append(v.deny, denyRule{re: regexp.MustCompile(p.Pattern), reason: p.Reason})
	}
	return v
}

// Validate checks a worksheet file on disk.
func (v *Validator) Validate(path string) Result {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Result{Reason: "File not found: " + path}
	}
	if r := v.checkName(path); !r.OK {
		return r
	}
	if r := v.checkSize(info.Size()); !r.OK {
		return r
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Reason: fmt.Sprintf("Error reading file: %v", err)}
	}
	if r := v.checkContent(data); !r.OK {
		return r
	}
	return Result{OK: true, Reason: "File validation passed successfully."}
}

// ValidateContent checks in-memory worksheet content. The name is used for
// the extension check only.
func (v *Validator) ValidateContent(name string, data []byte) Result {
	if r := v.checkName(name); !r.OK {
		return r
	}
	if r := v.checkSize(int64(len(data))); !r.OK {
		return r
	}
	if r := v.checkContent(data); !r.OK {
		return r
	}
	return Result{OK: true, Reason: "File validation passed successfully."}
}

func (v *Validator) checkName(name string) Result {
	v.mu.RLock()
	defer v.mu.RUnlock()

	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range v.extensions {
		if ext == strings.ToLower(allowed) {
			return Result{OK: true}
		}
	}
	return Result{Reason: fmt.Sprintf("Invalid file extension: '%s'. Only %s files are allowed.",
		ext, strings.Join(v.extensions, ", "))}
}

func (v *Validator) checkSize(size int64) Result {
	v.mu.RLock()
	maxSize := v.maxFileSize
	v.mu.RUnlock()

	if size > maxSize {
		sizeMB := float64(size) / (1024 * 1024)
		maxMB := strconv.FormatFloat(float64(maxSize)/(1024*1024), 'f', -1, 64)
		return Result{Reason: fmt.Sprintf("File size (%.2f MB) exceeds maximum allowed size (%s MB).", sizeMB, maxMB)}
	}
	if size == 0 {
		return Result{Reason: "File is empty."}
	}
	return Result{OK: true}
}

func (v *Validator) checkContent(data []byte) Result {
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return Result{Reason: "File contains binary data. Only text-based Markdown files are allowed."}
	}
	if found := v.DetectPatterns(string(data)); len(found) > 0 {
		return Result{Reason: fmt.Sprintf("Malicious content detected: %s. File contains potentially dangerous patterns and cannot be processed.",
			strings.Join(found, "; "))}
	}
	return Result{OK: true}
}

// DetectPatterns reports every denylist rule the content matches, in rule order.
func (v *Validator) DetectPatterns(content string) []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var found []string
	for _, rule := range v.deny {
		if rule.re.MatchString(content) {
			found = append(found, rule.reason)
		}
	}
	return found
}

// AddRule appends a denylist rule.
func (v *Validator) AddRule(pattern, reason string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deny = append(v.deny, denyRule{re: re, reason: reason})
	return nil
}

// SetMaxFileSize overrides the size limit. Values below 1 are ignored.
func (v *Validator) SetMaxFileSize(n int64) {
	if n < 1 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.maxFileSize = n
}

// LoadPolicy applies a validation policy YAML file. Values present in the
// file replace the corresponding defaults.
func (v *Validator) LoadPolicy(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var policy policyFile
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return err
	}

	var deny []denyRule
	for _, p := range policy.Validation.Deny {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("policy pattern %q: %w", p.Pattern, err)
		}
		deny = append(deny, denyRule{re: re, reason: p.Reason})
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if policy.Validation.MaxFileSize > 0 {
		v.maxFileSize = policy.Validation.MaxFileSize
	}
	if len(policy.Validation.Extensions) > 0 {
		v.extensions = policy.Validation.Extensions
	}
	if len(deny) > 0 {
		v.deny = deny
	}

	return nil
}
