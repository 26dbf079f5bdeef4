// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"

	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/instructions"
	"github.com/openregistry/registryd/state"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// InfoResponse - node counters since start
type InfoResponse struct {
	Uptime    string `json:"uptime"`
	Submitted uint64 `json:"submitted"`
	Rejected  uint64 `json:"rejected"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, InfoResponse{
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Submitted: s.submitted.Uint64(),
		Rejected:  s.rejected.Uint64(),
	})
}

type submitResponse struct {
	Digest string `json:"digest"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		s.respond(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		return
	}

	payload := &TransactionPayload{}
	if err := decodeJSONBody(r, payload); nil != err {
		s.fail(w, fault.ErrInvalidTransactionEncoding)
		return
	}
	tx, err := payload.transaction()
	if nil != err {
		s.fail(w, err)
		return
	}

	if err := s.runtime.ExecuteTransaction(tx); nil != err {
		s.rejected.Increment()
		s.log.Warnf("transaction rejected: %s", err)
		s.fail(w, err)
		return
	}
	s.submitted.Increment()

	// a successful submit invalidates every cached read
	s.cache.Flush()

	digest := tx.Digest()
	s.respond(w, http.StatusOK, submitResponse{
		Digest: base64.StdEncoding.EncodeToString(digest[:]),
	})
}

// AccountResponse - one raw ledger account
type AccountResponse struct {
	Key        string `json:"key"`
	Lamports   uint64 `json:"lamports"`
	Owner      string `json:"owner"`
	Data       string `json:"data"`
	Executable bool   `json:"executable"`
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	key, err := solana.PublicKeyFromBase58(chi.URLParam(r, "key"))
	if nil != err {
		s.fail(w, fault.ErrInvalidEncoding)
		return
	}

	if cached, ok := s.cache.Get(r.URL.Path); ok {
		s.respond(w, http.StatusOK, cached)
		return
	}

	account, err := s.fetch(key)
	if nil != err {
		s.fail(w, err)
		return
	}

	response := AccountResponse{
		Key:        key.String(),
		Lamports:   account.Lamports,
		Owner:      account.Owner.String(),
		Data:       base64.StdEncoding.EncodeToString(account.Data),
		Executable: account.Executable,
	}
	s.cache.SetDefault(r.URL.Path, response)
	s.respond(w, http.StatusOK, response)
}

// ClassResponse - one decoded class account
type ClassResponse struct {
	Address        string `json:"address"`
	Authority      string `json:"authority"`
	IsPermissioned bool   `json:"is_permissioned"`
	IsFrozen       bool   `json:"is_frozen"`
	Name           string `json:"name"`
	Metadata       string `json:"metadata"`
}

func (s *Server) handleClass(w http.ResponseWriter, r *http.Request) {
	authority, err := solana.PublicKeyFromBase58(chi.URLParam(r, "authority"))
	if nil != err {
		s.fail(w, fault.ErrInvalidEncoding)
		return
	}
	name := chi.URLParam(r, "name")

	if cached, ok := s.cache.Get(r.URL.Path); ok {
		s.respond(w, http.StatusOK, cached)
		return
	}

	address, _, err := state.ClassAddress(instructions.ProgramID, authority, name)
	if nil != err {
		s.fail(w, fault.ErrInvalidSeeds)
		return
	}
	account, err := s.fetch(address)
	if nil != err {
		s.fail(w, err)
		return
	}
	class, err := state.DecodeClass(account.Data)
	if nil != err {
		s.fail(w, err)
		return
	}

	response := ClassResponse{
		Address:        address.String(),
		Authority:      class.Authority.String(),
		IsPermissioned: class.IsPermissioned,
		IsFrozen:       class.IsFrozen,
		Name:           class.Name,
		Metadata:       class.Metadata,
	}
	s.cache.SetDefault(r.URL.Path, response)
	s.respond(w, http.StatusOK, response)
}

// RecordResponse - one decoded record account
type RecordResponse struct {
	Address              string `json:"address"`
	Class                string `json:"class"`
	OwnerKind            string `json:"owner_kind"`
	Owner                string `json:"owner"`
	IsFrozen             bool   `json:"is_frozen"`
	HasAuthorityDelegate bool   `json:"has_authority_delegate"`
	Expiry               int64  `json:"expiry"`
	Name                 string `json:"name"`
	Data                 string `json:"data"`
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	authority, err := solana.PublicKeyFromBase58(chi.URLParam(r, "authority"))
	if nil != err {
		s.fail(w, fault.ErrInvalidEncoding)
		return
	}
	className := chi.URLParam(r, "name")
	recordName := chi.URLParam(r, "record")

	if cached, ok := s.cache.Get(r.URL.Path); ok {
		s.respond(w, http.StatusOK, cached)
		return
	}

	classAddress, _, err := state.ClassAddress(instructions.ProgramID, authority, className)
	if nil != err {
		s.fail(w, fault.ErrInvalidSeeds)
		return
	}
	address, _, err := state.RecordAddress(instructions.ProgramID, classAddress, recordName)
	if nil != err {
		s.fail(w, fault.ErrInvalidSeeds)
		return
	}
	account, err := s.fetch(address)
	if nil != err {
		s.fail(w, err)
		return
	}
	record, err := state.DecodeRecord(account.Data)
	if nil != err {
		s.fail(w, err)
		return
	}

	ownerKind := "wallet"
	if state.OwnerToken == record.Owner.Kind {
		ownerKind = "token"
	}
	response := RecordResponse{
		Address:              address.String(),
		Class:                record.Class.String(),
		OwnerKind:            ownerKind,
		Owner:                record.Owner.Key.String(),
		IsFrozen:             record.IsFrozen,
		HasAuthorityDelegate: record.HasAuthorityDelegate,
		Expiry:               record.Expiry,
		Name:                 record.Name,
		Data:                 record.Data,
	}
	s.cache.SetDefault(r.URL.Path, response)
	s.respond(w, http.StatusOK, response)
}

// read one live account from the ledger
func (s *Server) fetch(key solana.PublicKey) (*host.Account, error) {
	account, err := s.runtime.Ledger().Get(key)
	if nil != err {
		return nil, err
	}
	if !account.IsInUse() {
		return nil, fault.ErrAccountNotFound
	}
	return account, nil
}
