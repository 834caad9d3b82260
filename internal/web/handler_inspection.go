package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/vistoria/internal/auth"
	"github.com/vbonduro/vistoria/internal/service"
)

// identity returns the caller verified by auth.RequireAuth.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

func (s *Server) handleRegisterProperty(w http.ResponseWriter, r *http.Request) {
	var in service.PropertyInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	property, inspection, err := s.service.RegisterProperty(r.Context(), identity(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, map[string]any{
		"property":   newPropertyView(property),
		"inspection": newInspectionView(inspection, nil),
	})
}

func (s *Server) handleStartInspection(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Observations string `json:"observations"`
	}
	if err := decodeOptionalJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	inspection, err := s.service.StartInspection(r.Context(), identity(r), chi.URLParam(r, "id"), in.Observations)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, newInspectionView(inspection, nil))
}

func (s *Server) handleListInspections(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.ListInspections(r.Context(), identity(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]inspectionView, 0, len(list))
	for i := range list {
		out = append(out, newInspectionView(&list[i].Inspection, list[i].Property))
	}
	writeJSON(w, s.logger, http.StatusOK, out)
}

func (s *Server) handleCurrentInspection(w http.ResponseWriter, r *http.Request) {
	inspection, err := s.service.CurrentInspection(r.Context(), identity(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, newInspectionView(inspection, nil))
}

func (s *Server) handleGetInspection(w http.ResponseWriter, r *http.Request) {
	tree, sum, err := s.service.Summarize(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, newInspectionDetailView(tree, sum))
}

func (s *Server) handleDeleteInspection(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteInspection(r.Context(), identity(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddRoom(w http.ResponseWriter, r *http.Request) {
	var in service.RoomInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	room, err := s.service.AddRoom(r.Context(), identity(r), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, newRoomView(room))
}

func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	cl, err := s.service.Checklist(r.Context(), chi.URLParam(r, "roomType"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, cl)
}

func (s *Server) handleRecordItems(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Items []service.ItemInput `json:"items"`
	}
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	items, err := s.service.RecordItems(r.Context(), identity(r), chi.URLParam(r, "id"), in.Items)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]itemView, 0, len(items))
	for i := range items {
		out = append(out, newItemView(&items[i]))
	}
	writeJSON(w, s.logger, http.StatusOK, out)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Condition   string `json:"condition"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.service.UpdateItem(r.Context(), identity(r), chi.URLParam(r, "id"), in.Condition, in.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, newItemView(item))
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	doc, err := s.service.Finalize(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeDocument(w, s.logger, doc.Filename, doc.ContentType, doc.Content)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.service.Report(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeDocument(w, s.logger, doc.Filename, doc.ContentType, doc.Content)
}

func (s *Server) handleSpreadsheet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.service.Spreadsheet(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeDocument(w, s.logger, doc.Filename, doc.ContentType, doc.Content)
}
