package gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/shlok3664/Ai-Interior-Consultant/internal/imaging"
)

// ImagenEditor applies free-form edits to an image. It exists so deployments
// with a Vertex AI project can route edits through Imagen inpainting instead
// of the inline-image chat model.
type ImagenEditor interface {
	Edit(ctx context.Context, instruction string, base imaging.Image) (imaging.Image, error)
}

// VertexImagenConfig describes how to connect to Imagen.
type VertexImagenConfig struct {
	ProjectID          string
	Location           string
	Model              string
	APIKey             string
	ServiceAccount     string
	ServiceAccountJSON string
}

// VertexImagen implements ImagenEditor via the Vertex AI prediction API.
type VertexImagen struct {
	cfg VertexImagenConfig
}

// NewVertexImagen wires an Imagen editor, or returns nil when the config is
// incomplete so callers can fall back to the default edit path.
func NewVertexImagen(cfg VertexImagenConfig) *VertexImagen {
	cfg.ProjectID = strings.TrimSpace(cfg.ProjectID)
	cfg.Location = strings.TrimSpace(cfg.Location)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.ProjectID == "" || cfg.Location == "" || cfg.Model == "" {
		return nil
	}
	return &VertexImagen{cfg: cfg}
}

// Edit runs a free-form inpainting request against the base image.
func (v *VertexImagen) Edit(ctx context.Context, instruction string, base imaging.Image) (imaging.Image, error) {
	if v == nil {
		return imaging.Image{}, fmt.Errorf("imagen: client not configured")
	}
	if strings.TrimSpace(instruction) == "" {
		return imaging.Image{}, fmt.Errorf("imagen: instruction is required")
	}
	if base.IsZero() {
		return imaging.Image{}, fmt.Errorf("imagen: base image is required")
	}

	instance, err := structpb.NewValue(map[string]any{
		"prompt": instruction,
		"image": map[string]any{
			"bytesBase64Encoded": base.Data,
		},
	})
	if err != nil {
		return imaging.Image{}, err
	}

	params, err := structpb.NewValue(map[string]any{
		"sampleCount": 1,
		"editMode":    "inpainting-free-form",
	})
	if err != nil {
		return imaging.Image{}, err
	}

	endpoint := fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s",
		v.cfg.ProjectID, v.cfg.Location, v.cfg.Model)
	options := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", v.cfg.Location)),
	}
	switch {
	case v.cfg.ServiceAccountJSON != "":
		options = append(options, option.WithCredentialsJSON([]byte(v.cfg.ServiceAccountJSON)))
	case v.cfg.ServiceAccount != "":
		options = append(options, option.WithCredentialsFile(v.cfg.ServiceAccount))
	case v.cfg.APIKey != "":
		options = append(options, option.WithAPIKey(v.cfg.APIKey))
	}

	client, err := aiplatform.NewPredictionClient(ctx, options...)
	if err != nil {
		return imaging.Image{}, fmt.Errorf("imagen: prediction client: %w", err)
	}
	defer client.Close()

	resp, err := client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:   endpoint,
		Instances:  []*structpb.Value{instance},
		Parameters: params,
	})
	if err != nil {
		return imaging.Image{}, fmt.Errorf("imagen: predict: %w", err)
	}
	if len(resp.Predictions) == 0 {
		return imaging.Image{}, fmt.Errorf("imagen: empty prediction response")
	}

	field := resp.Predictions[0].GetStructValue().GetFields()["bytesBase64Encoded"]
	if field == nil {
		return imaging.Image{}, fmt.Errorf("imagen: prediction missing bytes")
	}
	data, err := base64.StdEncoding.DecodeString(field.GetStringValue())
	if err != nil {
		return imaging.Image{}, fmt.Errorf("imagen: decode result: %w", err)
	}

	return imaging.FromBytes(data, "image/png")
}
