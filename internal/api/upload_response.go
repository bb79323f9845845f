package api

// swagger:model api.UploadData
type UploadData struct {
	URL string `json:"url" example:"http://localhost:8080/uploads/whey-protein-1f2d.png"`
}
