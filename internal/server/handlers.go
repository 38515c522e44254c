package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/raca159/simple-label-maker/internal/label"
)

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	name, description, err := s.store.Describe()
	if err != nil {
		s.respondWithStoreError(w, "getProject", err)
		return
	}
	samples, err := s.store.Samples()
	if err != nil {
		s.respondWithStoreError(w, "getProject", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"name":         name,
		"description":  description,
		"totalSamples": len(samples),
	})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.ProjectStats(r.Context())
	if err != nil {
		s.respondWithStoreError(w, "getStats", err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (s *Server) listSamples(w http.ResponseWriter, r *http.Request) {
	samples, err := s.store.Samples()
	if err != nil {
		s.respondWithStoreError(w, "listSamples", err)
		return
	}
	if samples == nil {
		samples = []label.Sample{}
	}
	respondWithJSON(w, http.StatusOK, samples)
}

// lookupSample resolves the {id} route variable to a configured sample.
// Responds 404 and returns nil when the sample is not in the project.
func (s *Server) lookupSample(w http.ResponseWriter, r *http.Request, op string) *label.Sample {
	id := mux.Vars(r)["id"]
	sample, err := s.store.FindSample(id)
	if err != nil {
		s.respondWithStoreError(w, op, err)
		return nil
	}
	if sample == nil {
		respondWithJSON(w, http.StatusNotFound, map[string]string{"message": "sample not found"})
		return nil
	}
	return sample
}

func (s *Server) getSampleURL(w http.ResponseWriter, r *http.Request) {
	sample := s.lookupSample(w, r, "getSampleURL")
	if sample == nil {
		return
	}
	url, err := s.store.SampleURL(r.Context(), sample)
	if err != nil {
		s.respondWithStoreError(w, "getSampleURL", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) getSampleData(w http.ResponseWriter, r *http.Request) {
	sample := s.lookupSample(w, r, "getSampleData")
	if sample == nil {
		return
	}
	data, contentType, err := s.store.SampleData(r.Context(), sample)
	if err != nil {
		s.respondWithStoreError(w, "getSampleData", err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) listSampleAnnotations(w http.ResponseWriter, r *http.Request) {
	annotations, err := s.store.ListAnnotationsForSample(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithStoreError(w, "listSampleAnnotations", err)
		return
	}
	if annotations == nil {
		annotations = []*label.Annotation{}
	}
	respondWithJSON(w, http.StatusOK, annotations)
}

func (s *Server) getAnnotation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	annotation, err := s.store.GetAnnotation(r.Context(), vars["id"], vars["userId"])
	if err != nil {
		s.respondWithStoreError(w, "getAnnotation", err)
		return
	}
	if annotation == nil {
		respondWithJSON(w, http.StatusNotFound, map[string]string{"message": "annotation not found"})
		return
	}
	respondWithJSON(w, http.StatusOK, annotation)
}

func (s *Server) saveAnnotation(w http.ResponseWriter, r *http.Request) {
	var annotation label.Annotation
	if err := json.NewDecoder(r.Body).Decode(&annotation); err != nil {
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid annotation body"})
		return
	}
	if annotation.Status == "" {
		annotation.Status = label.StatusSubmitted
	}
	if err := s.store.SaveAnnotation(r.Context(), &annotation); err != nil {
		s.respondWithStoreError(w, "saveAnnotation", err)
		return
	}
	respondWithJSON(w, http.StatusOK, &annotation)
}

func (s *Server) getAnnotatedSamples(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.AnnotatedSampleIDs(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		s.respondWithStoreError(w, "getAnnotatedSamples", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"sampleIds": ids})
}

// getRemainingSamples returns the samples the user has not annotated yet,
// in project order. This backs the "resume where I left off" flow.
func (s *Server) getRemainingSamples(w http.ResponseWriter, r *http.Request) {
	annotated, err := s.store.AnnotatedSampleIDs(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		s.respondWithStoreError(w, "getRemainingSamples", err)
		return
	}
	samples, err := s.store.Samples()
	if err != nil {
		s.respondWithStoreError(w, "getRemainingSamples", err)
		return
	}

	done := make(map[string]struct{}, len(annotated))
	for _, id := range annotated {
		done[id] = struct{}{}
	}

	remaining := []label.Sample{}
	for _, sample := range samples {
		sanitized, _, err := label.SanitizeKeyPart(sample.ID)
		if err != nil {
			continue
		}
		if _, ok := done[sanitized]; !ok {
			remaining = append(remaining, sample)
		}
	}
	respondWithJSON(w, http.StatusOK, remaining)
}
