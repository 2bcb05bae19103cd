package routes

import (
	"fmt"
	"time"

	"rentroll-server/storage"
	"rentroll-server/utils"

	"github.com/kataras/iris/v12"
)

type uploadInput struct {
	Data     string `json:"data"` // base64 data URL or raw base64
	PublicID string `json:"public_id"`
}

// UploadImage handles base64 image upload to Cloudinary and returns the
// hosted URL for use as a property image
func UploadImage(ctx iris.Context) {
	var in uploadInput
	if err := ctx.ReadJSON(&in); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Invalid request body", ctx)
		return
	}

	if in.PublicID == "" {
		userID, _ := ctx.Values().Get("userID").(uint)
		in.PublicID = fmt.Sprintf("property-images/%d-%d", userID, time.Now().Unix())
	}

	url := storage.UploadBase64Image(in.Data, in.PublicID)
	if url == "" {
		utils.CreateError(iris.StatusBadRequest, "Image upload failed", ctx)
		return
	}

	ctx.JSON(iris.Map{"url": url})
}
