package panel

import (
	"github.com/sahilm/fuzzy"

	"stash/model"
)

type folderNames []model.Folder

func (f folderNames) String(i int) string { return f[i].Name }
func (f folderNames) Len() int            { return len(f) }

// filterFolders keeps the folders whose name fuzzy-matches query, best match
// first. An empty query keeps every folder in stored order.
func filterFolders(folders []model.Folder, query string) []model.Folder {
	if query == "" {
		return folders
	}
	matches := fuzzy.FindFrom(query, folderNames(folders))
	out := make([]model.Folder, 0, len(matches))
	for _, m := range matches {
		out = append(out, folders[m.Index])
	}
	return out
}
