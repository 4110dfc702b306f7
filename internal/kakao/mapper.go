package kakao

import "github.com/mmcdole/locker/internal/domain"

// MapImages converts image documents to thumbnails, dropping documents without an image URL
func MapImages(docs []ImageDocument) []domain.Thumbnail {
	items := make([]domain.Thumbnail, 0, len(docs))
	for _, d := range docs {
		if d.ImageURL == "" {
			continue
		}
		items = append(items, domain.Thumbnail{
			Title:        d.DisplaySitename,
			ThumbnailURL: d.ThumbnailURL,
			MediaURL:     d.ImageURL,
			Source:       domain.SourceImage,
			DateTime:     d.Datetime,
		})
	}
	return items
}

// MapVideos converts clip documents to thumbnails, dropping documents without a URL
func MapVideos(docs []VideoDocument) []domain.Thumbnail {
	items := make([]domain.Thumbnail, 0, len(docs))
	for _, d := range docs {
		if d.URL == "" {
			continue
		}
		items = append(items, domain.Thumbnail{
			Title:        d.Title,
			ThumbnailURL: d.Thumbnail,
			MediaURL:     d.URL,
			Source:       domain.SourceVideo,
			DateTime:     d.Datetime,
		})
	}
	return items
}
