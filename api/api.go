// Copyright 2024 The tinychain Authors
// This file is part of the tinychain library.
//
// The tinychain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The tinychain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the tinychain library. If not, see <http://www.gnu.org/licenses/>.

// Package api is the JSON-over-HTTP surface external tools use to read
// chain state and submit transfers: a thin translator over the Node facade
// that never touches ledger storage directly.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/tinychain/tinychain/blockchain"
	"github.com/tinychain/tinychain/common"
	"github.com/tinychain/tinychain/log"
	"github.com/tinychain/tinychain/node"
)

var logger = log.NewModuleLogger(log.ModuleAPI)

// Server exposes a Node over HTTP.
type Server struct {
	node   *node.Node
	router *httprouter.Router
}

// NewServer builds a Server routing requests to n.
func NewServer(n *node.Node) *Server {
	s := &Server{node: n, router: httprouter.New()}
	s.router.GET("/blocks", s.getBlocks)
	s.router.GET("/blocks/:number", s.getBlock)
	s.router.GET("/balances", s.getBalances)
	s.router.GET("/account/nonce", s.getNonce)
	s.router.POST("/transfer", s.postTransfer)
	return s
}

// Handler returns the CORS-wrapped http.Handler to pass to
// http.ListenAndServe.
func (s *Server) Handler() http.Handler {
	return cors.AllowAll().Handler(s.router)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps a chain-engine error to an HTTP status: balance-related
// rejections 403, not-found 404, everything else 500. Malformed requests
// never reach it; the handlers answer those with 400 themselves.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch err.(type) {
	case *blockchain.InsufficientFundsError, *blockchain.BalanceOverflowError:
		return http.StatusForbidden
	}
	switch err {
	case blockchain.ErrBlockNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ServeHTTP lets Server be used directly as an http.Handler in tests
// without going through the CORS wrapper.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) getBlocks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fromNumber, err := parseUintQuery(r, "from_number", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	blocks, err := s.node.Blocks(fromNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	if blocks == nil {
		blocks = []blockchain.Block{}
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (s *Server) getBlock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	number, err := strconv.ParseUint(ps.ByName("number"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid block number"})
		return
	}
	block, err := s.node.Block(number)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

type balancesResponse struct {
	Hash     common.Hash               `json:"hash"`
	Balances map[common.Address]uint64 `json:"balances"`
}

func (s *Server) getBalances(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	hash, balances, err := s.node.Balances()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balancesResponse{Hash: hash, Balances: balances})
}

type nonceResponse struct {
	Nonce uint64 `json:"nonce"`
}

func (s *Server) getNonce(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	account := r.URL.Query().Get("account")
	if account == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing account query parameter"})
		return
	}
	nonce, err := s.node.AccountNonce(common.Address(account))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonceResponse{Nonce: nonce})
}

type transferRequest struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value uint64         `json:"value"`
	Nonce uint64         `json:"nonce"`
}

type transferResponse struct {
	Success bool `json:"success"`
}

func (s *Server) postTransfer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed transfer request"})
		return
	}
	if req.From == "" || req.To == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "from and to are required"})
		return
	}
	if err := s.node.Transfer(req.From, req.To, req.Value, req.Nonce); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transferResponse{Success: true})
}

func parseUintQuery(r *http.Request, key string, def uint64) (uint64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
