package transforms

import (
	"fmt"

	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/frontmatter"
	"github.com/davherrmann/davherrmann.github.io/internal/plugin"
)

// YAMLFrontMatter extracts a leading YAML header into meta and strips it from
// the content. Fields never overwrite metadata set by earlier plugins.
func YAMLFrontMatter() plugin.Plugin {
	return plugin.TextFunc("yamlFrontMatter", func(pc plugin.Context) (document.Document, error) {
		block, err := frontmatter.Split(pc.File.Content.String())
		if err != nil {
			return pc.File, err
		}
		if !block.Had {
			return pc.File, nil
		}

		fields, err := frontmatter.ParseYAML(block.Header)
		if err != nil {
			return pc.File, fmt.Errorf("parse front matter: %w", err)
		}

		doc, skipped := pc.File.MergeMeta(fields)
		if len(skipped) > 0 {
			return pc.File, fmt.Errorf("%w: %v", document.ErrMetaKeyExists, skipped)
		}
		return doc.WithText(block.Body), nil
	})
}
