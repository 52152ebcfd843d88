// Copyright 2014 Google Inc. All rights reserved.
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

package pathtools

import (
	"path/filepath"
	"strings"
)

// ReplaceExtension changes the file extension. If the file does not have an
// extension, the new extension is appended.
func ReplaceExtension(path string, extension string) string {
	oldExt := filepath.Ext(path)
	if oldExt != "" {
		path = strings.TrimSuffix(path, oldExt)
	}
	return path + "." + extension
}
