package handlers

import (
	"net/http"

	"myregistry/domain"
	"myregistry/service"

	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// BatchReplication (POST /peerreplication/batch/) applies every item of a peer batch as replication
// traffic and answers one result per item, in request order. Item failures never fail the batch.
func (h *HTTPServer) BatchReplication(ectx echo.Context) error {
	var list domain.ReplicationList
	if err := ectx.Bind(&list); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}

	resp := domain.ReplicationListResponse{
		ResponseList: make([]domain.ReplicationInstanceResponse, 0, len(list.ReplicationList)),
	}
	for _, item := range list.ReplicationList {
		resp.ResponseList = append(resp.ResponseList, h.dispatch(item))
	}
	return ectx.JSON(http.StatusOK, resp)
}

func (h *HTTPServer) dispatch(item domain.ReplicationInstance) domain.ReplicationInstanceResponse {
	switch item.Action {
	case domain.ActionRegister:
		if item.InstanceInfo == nil {
			return domain.ReplicationInstanceResponse{StatusCode: http.StatusBadRequest}
		}
		info, err := fromRegisterRequest(item.AppName, *item.InstanceInfo)
		if err != nil {
			level.Debug(h.logger).Log("msg", "invalid replicated registration", "app", item.AppName, "id", item.ID, "err", err)
			return domain.ReplicationInstanceResponse{StatusCode: http.StatusBadRequest}
		}
		h.registry.Register(info, info.LeaseInfo.DurationInSecs, true)
		return domain.ReplicationInstanceResponse{StatusCode: http.StatusNoContent}

	case domain.ActionHeartbeat:
		var lastDirty *int64
		if item.LastDirtyTimestamp > 0 {
			lastDirty = &item.LastDirtyTimestamp
		}
		overridden := item.OverriddenStatus
		if overridden == domain.StatusUnknown {
			overridden = ""
		}
		code, stored := h.renew(item.AppName, item.ID, overridden, lastDirty, true)
		return domain.ReplicationInstanceResponse{StatusCode: code, ResponseEntity: stored}

	case domain.ActionCancel:
		if !h.registry.Cancel(item.AppName, item.ID, true) {
			return domain.ReplicationInstanceResponse{StatusCode: http.StatusNotFound}
		}
		return domain.ReplicationInstanceResponse{StatusCode: http.StatusOK}

	case domain.ActionStatusUpdate:
		st, ok := domain.ParseInstanceStatus(string(item.Status))
		if !ok {
			return domain.ReplicationInstanceResponse{StatusCode: http.StatusBadRequest}
		}
		return domain.ReplicationInstanceResponse{StatusCode: h.statusUpdate(item.AppName, item.ID, st, item.LastDirtyTimestamp, true)}

	case domain.ActionDeleteStatusOverride:
		return domain.ReplicationInstanceResponse{StatusCode: h.deleteStatusOverride(item.AppName, item.ID, item.LastDirtyTimestamp, true)}

	default:
		level.Warn(h.logger).Log("msg", "unknown replication action", "action", item.Action, "app", item.AppName, "id", item.ID)
		return domain.ReplicationInstanceResponse{StatusCode: http.StatusBadRequest}
	}
}
