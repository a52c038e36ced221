// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package text is the rewrite engine: ordered pattern rules applied to an
in-memory buffer, plus import insertion.

	+-------------+     +--------------+     +--------------+
	|  RuleSet    | --> |   Compile    | --> |    Apply     |
	| (data only) |     | (regexp+vars)|     | (pure, order)|
	+-------------+     +--------------+     +--------------+
	                                               ^
	+-----------------+                            |
	| ImportDirective | ---- Ensure (once, first) -+
	+-----------------+

🎯 Purpose:
- Rewrite legacy string-keyed throw statements into structured ones
- Keep every rule a piece of data so new migrations need no engine change

🔄 Flow:
1. Compile a RuleSet (bad patterns are reported per rule, the rest still apply)
2. Ensure the import block once
3. Apply rules strictly in order over the evolving buffer

⚡ Guarantees:
- Zero matches returns the input string unchanged
- A rule only matches text carrying its legacy marker; rewritten spans no longer
  carry it, so a second Apply is a no-op (see CheckMarkers, VerifyIdempotent)
- Specific rules listed before a catch-all consume their spans first
*/
package text
