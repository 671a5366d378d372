package services

import (
	"fmt"
	"strings"

	. "cinegenio/internal/models"
)

// EMPTY_BUCKET_MARKER is rendered for a taste bucket with no items; the
// prompts rely on the literal word.
const EMPTY_BUCKET_MARKER = "Nenhum"

// FormatTasteProfile serializes the four rating buckets into the text
// block every prompt consumes. The same block doubles as the exclusion
// list at several call sites, so callers must pass the identical string
// for both purposes. Pure, deterministic, item order is caller order.
func FormatTasteProfile(profile TasteProfile) string {
	return strings.TrimSpace(fmt.Sprintf(`
**Amei (obras que considero perfeitas, alvo principal para inspiração):**
%s

**Gostei (obras muito boas, boas pistas do que faltou para ser 'amei'):**
%s

**Indiferente (obras que achei medianas, armadilhas a evitar):**
%s

**Não Gostei (obras que não me agradaram, elementos a excluir completamente):**
%s
`,
		formatBucket(profile.Loved),
		formatBucket(profile.Liked),
		formatBucket(profile.Neutral),
		formatBucket(profile.Disliked),
	))
}

func formatBucket(items []WatchedItem) string {
	if len(items) == 0 {
		return EMPTY_BUCKET_MARKER
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (Tipo: %s, Gênero: %s)",
			item.Title, item.Category, item.Genre))
	}
	return strings.Join(lines, "\n")
}
