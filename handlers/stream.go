package handlers

import (
	"net/http"

	"attendance/models"
	"attendance/pipeline"
	"attendance/utils"

	"github.com/gin-gonic/gin"
)

type FaceInfo struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	W     int     `json:"w"`
	H     int     `json:"h"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Known bool    `json:"known"`
}

func faceInfos(annotations []pipeline.Annotation) []FaceInfo {
	result := []FaceInfo{}
	for _, a := range annotations {
		result = append(result, FaceInfo{
			X:     a.Rect.Min.X,
			Y:     a.Rect.Min.Y,
			W:     a.Rect.Dx(),
			H:     a.Rect.Dy(),
			Label: a.Label,
			Score: a.Score,
			Known: a.Known,
		})
	}
	return result
}

// StreamFrame serves the newest processed frame as JPEG. The dashboard polls
// this; dropped frames are fine, only freshness matters.
func StreamFrame(c *gin.Context, user *models.User) {
	frame, ok := pipe.Queue.Latest()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no frame available"})
		return
	}
	data, err := utils.EncodeJPEG(frame.Image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

// StreamStatus reports the pipeline state plus the newest frame's face
// annotations (box, label, colour class) for the display layer to draw.
func StreamStatus(c *gin.Context, user *models.User) {
	status := gin.H{
		"running": pipe.Running(),
		"error":   pipe.LastError(),
		"queued":  pipe.Queue.Len(),
		"faces":   []FaceInfo{},
	}
	if frame, ok := pipe.Queue.Latest(); ok {
		status["frame_id"] = frame.ID.String()
		status["taken"] = frame.Taken
		status["faces"] = faceInfos(frame.Annotations)
	}
	c.JSON(http.StatusOK, status)
}
